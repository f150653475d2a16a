package stellar

import (
	"context"

	"github.com/AlexZinkM/stellar-pay/internal/client"
	"github.com/AlexZinkM/stellar-pay/internal/model"
	"github.com/AlexZinkM/stellar-pay/internal/network"

	"go.uber.org/zap"
)

// HealthChecker probes a JSON-RPC submission endpoint
type HealthChecker interface {
	Healthy(ctx context.Context) (bool, error)
}

func defaultHealthChecker(profile network.Profile) HealthChecker {
	return client.NewRPCClient(profile.RPCURL)
}

// NetworkStatus describes the active profile. RPC endpoints are probed with getHealth;
// a failed probe is reported as unhealthy, not as an error.
func (w *Wallet) NetworkStatus(ctx context.Context) *model.NetworkResponse {
	profile := w.Network()
	resp := &model.NetworkResponse{
		Name:       profile.Name,
		Mainnet:    profile.IsMainnet(),
		Passphrase: profile.Passphrase,
		HorizonURL: profile.HorizonURL,
		RPCURL:     profile.RPCURL,
		Transport:  string(profile.Transport),
	}
	if profile.IsMainnet() {
		resp.Warning = "mainnet: payments move real funds"
	}

	if profile.Transport != network.TransportRPC {
		return resp
	}

	healthy, err := w.health(profile).Healthy(ctx)
	if err != nil {
		w.log.Warn("rpc health check failed", zap.String("url", profile.RPCURL), zap.Error(err))
		healthy = false
	}
	resp.Healthy = &healthy
	return resp
}
