package bridge

import "context"

type Service interface {
	ConnectWallet(ctx context.Context, name string) Result
}
