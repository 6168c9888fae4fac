package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
)

const (
	// NetworkKey is the settlement chain the router operates on
	NetworkKey = "NETWORK"
	// TargetNetworkKey overrides the network where bridge settlement is
	// received; it defaults to NETWORK
	TargetNetworkKey = "TARGET_NETWORK"
	// RPCURLKey is the JSON-RPC endpoint of the settlement chain node
	RPCURLKey = "RPC_URL"
	// MarketMakerURLKey is the base url of the offer market's discovery API
	MarketMakerURLKey = "MARKET_MAKER_URL"
	// BrokerURLKey is the base url of the bridge venue's brokerage API
	BrokerURLKey = "BROKER_URL"
	// OfferContractKey is the address of the on-chain offer market contract
	OfferContractKey = "OFFER_CONTRACT"
	// AffiliateAddressKey is the optional affiliate forwarded on offer takes
	AffiliateAddressKey = "AFFILIATE_ADDRESS"
	// WalletKeyKey is the hex-encoded private key of the trading wallet
	WalletKeyKey = "WALLET_KEY"
	// DefaultStrategyKey is the routing strategy used when none is passed
	// on the command line
	DefaultStrategyKey = "DEFAULT_STRATEGY"
	// ConfirmationTimeoutKey bounds how long the router waits for an
	// on-chain confirmation
	ConfirmationTimeoutKey = "CONFIRMATION_TIMEOUT"
	// ConfirmationPollIntervalKey is the pace of receipt lookups while
	// waiting for a confirmation
	ConfirmationPollIntervalKey = "CONFIRMATION_POLL_INTERVAL"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
)

var vip *viper.Viper

// InitConfig loads the configuration from the OTCDEX_* environment and
// validates it.
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("OTCDEX")
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, string(domain.NetworkEthereum))
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DefaultStrategyKey, string(domain.StrategyBestPrice))
	vip.SetDefault(ConfirmationTimeoutKey, 300*time.Second)
	vip.SetDefault(ConfirmationPollIntervalKey, 3*time.Second)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}
	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

// GetNetwork returns the settlement chain.
func GetNetwork() domain.Network {
	return domain.Network(GetString(NetworkKey))
}

// GetTargetNetwork returns the network where bridge settlement is
// received, falling back to the settlement chain.
func GetTargetNetwork() domain.Network {
	if target := GetString(TargetNetworkKey); target != "" {
		return domain.Network(target)
	}
	return GetNetwork()
}

// GetDefaultStrategy returns the routing strategy to use when the caller
// does not pass one.
func GetDefaultStrategy() domain.Strategy {
	return domain.Strategy(GetString(DefaultStrategyKey))
}

func validate() error {
	if err := GetNetwork().Validate(); err != nil {
		return fmt.Errorf("%s: %s", NetworkKey, err)
	}
	if target := GetString(TargetNetworkKey); target != "" {
		if err := domain.Network(target).Validate(); err != nil {
			return fmt.Errorf("%s: %s", TargetNetworkKey, err)
		}
	}
	if err := GetDefaultStrategy().Validate(); err != nil {
		return fmt.Errorf("%s: %s", DefaultStrategyKey, err)
	}

	if !vip.IsSet(RPCURLKey) {
		return fmt.Errorf("missing chain rpc url")
	}
	if !vip.IsSet(MarketMakerURLKey) {
		return fmt.Errorf("missing market maker api url")
	}
	if !vip.IsSet(BrokerURLKey) {
		return fmt.Errorf("missing broker api url")
	}
	if !vip.IsSet(WalletKeyKey) {
		return fmt.Errorf("missing wallet private key")
	}

	contract := GetString(OfferContractKey)
	if !common.IsHexAddress(contract) {
		return fmt.Errorf("%s must be a valid contract address", OfferContractKey)
	}
	if affiliate := GetString(AffiliateAddressKey); affiliate != "" {
		if !common.IsHexAddress(affiliate) {
			return fmt.Errorf("%s must be a valid address", AffiliateAddressKey)
		}
	}

	if GetDuration(ConfirmationTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be positive", ConfirmationTimeoutKey)
	}
	if GetDuration(ConfirmationPollIntervalKey) <= 0 {
		return fmt.Errorf("%s must be positive", ConfirmationPollIntervalKey)
	}
	return nil
}
