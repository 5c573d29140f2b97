package models

import "strings"

// WalletName selects a wallet provider.
type WalletName string

const (
	WalletAptos   WalletName = "aptos"
	WalletPontem  WalletName = "pontem"
	WalletPetra   WalletName = "petra"
	WalletRise    WalletName = "rise"
	WalletFewcha  WalletName = "fewcha"
	WalletMartian WalletName = "martian"
)

// WalletNames is the fixed set of supported wallets.
var WalletNames = []WalletName{
	WalletAptos, WalletPontem, WalletPetra, WalletRise, WalletFewcha, WalletMartian,
}

// ParseWalletName lower-cases s and matches it against the supported set.
func ParseWalletName(s string) (WalletName, bool) {
	name := WalletName(strings.ToLower(s))
	for _, n := range WalletNames {
		if n == name {
			return name, true
		}
	}
	return "", false
}

// DisplayName is the product name used in user-facing messages.
func (n WalletName) DisplayName() string {
	if n == "" {
		return ""
	}
	return strings.ToUpper(string(n[:1])) + string(n[1:])
}

// ConnectResponse is what a provider's connect() resolves with. Providers
// disagree on where the address lives, so all known shapes are kept.
type ConnectResponse struct {
	Address   string          `json:"address,omitempty"`
	PublicKey string          `json:"publicKey,omitempty"`
	Account   *ConnectAccount `json:"account,omitempty"`
}

type ConnectAccount struct {
	Address string `json:"address,omitempty"`
}

// WalletAddress returns the first non-empty of address, publicKey and account.address.
func (r *ConnectResponse) WalletAddress() string {
	if r == nil {
		return ""
	}
	if r.Address != "" {
		return r.Address
	}
	if r.PublicKey != "" {
		return r.PublicKey
	}
	if r.Account != nil {
		return r.Account.Address
	}
	return ""
}

type ConnectWallet struct {
	Wallet string `json:"wallet"`
}

type ConnectStatus struct {
	Status string `json:"status"`
}
