package main

import (
	"github.com/AlexZinkM/stellar-pay/cmd/stellar-pay/cmd"

	_ "github.com/AlexZinkM/stellar-pay/docs"
)

// @title stellar-pay API
// @version 1.0
// @description Single-user Stellar payment wallet with an external signer.
// @BasePath /
func main() {
	cmd.Execute()
}
