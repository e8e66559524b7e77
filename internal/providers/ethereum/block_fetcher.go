package ethereum

import (
	"context"
	"time"

	"github.com/feral-file/ff-provenance/internal/block"
)

// ethereumBlockFetcher implements block.BlockFetcher on top of EthereumClient
type ethereumBlockFetcher struct {
	client EthereumClient
}

func NewEthereumBlockFetcher(client EthereumClient) block.BlockFetcher {
	return &ethereumBlockFetcher{client: client}
}

func (f *ethereumBlockFetcher) EndpointID() string {
	return f.client.EndpointID()
}

// FetchLatestBlock fetches the latest block number from Ethereum
func (f *ethereumBlockFetcher) FetchLatestBlock(ctx context.Context) (uint64, error) {
	return f.client.LatestBlockNumber(ctx)
}

// FetchBlockTimestamp fetches the timestamp for a given block number from Ethereum
func (f *ethereumBlockFetcher) FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	return f.client.BlockTimestamp(ctx, blockNumber)
}
