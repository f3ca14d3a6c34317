package service_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vladislavprovich/nft-indexer/internal/service"
	"github.com/vladislavprovich/nft-indexer/pkg/cache"
	"github.com/vladislavprovich/nft-indexer/pkg/client/alchemy"
	"github.com/vladislavprovich/nft-indexer/pkg/wallet"
)

const owner = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

type mockAlchemyClient struct {
	mock.Mock
}

func (m *mockAlchemyClient) GetNFTsForOwner(
	ctx context.Context,
	req *alchemy.GetNFTsForOwnerRequest,
) (*alchemy.GetNFTsForOwnerResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*alchemy.GetNFTsForOwnerResponse)
	return resp, args.Error(1)
}

func (m *mockAlchemyClient) GetNFTMetadata(
	ctx context.Context,
	req *alchemy.GetNFTMetadataRequest,
) (*alchemy.GetNFTMetadataResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*alchemy.GetNFTMetadataResponse)
	return resp, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() service.Config {
	return service.Config{
		MaxTokens:           10,
		MetadataConcurrency: 3,
		MetadataTimeout:     time.Second,
		MetadataRetries:     1,
		LookupRetries:       1,
		RetryBackoff:        time.Millisecond,
	}
}

func ownedNFTs(n int) *alchemy.GetNFTsForOwnerResponse {
	resp := &alchemy.GetNFTsForOwnerResponse{TotalCount: n}
	for i := range n {
		resp.OwnedNFTs = append(resp.OwnedNFTs, alchemy.OwnedNFT{
			ContractAddress: "0xContract",
			TokenID:         fmt.Sprint(i),
			Balance:         "1",
		})
	}
	return resp
}

func metadataFor(tokenID string) *alchemy.GetNFTMetadataResponse {
	return &alchemy.GetNFTMetadataResponse{
		TokenID: tokenID,
		Name:    "Token #" + tokenID,
		Image:   alchemy.Image{CachedURL: "https://cache/" + tokenID + ".png"},
	}
}

func tokenIDIs(id string) any {
	return mock.MatchedBy(func(req *alchemy.GetNFTMetadataRequest) bool {
		return req.TokenID == id
	})
}

func TestService_QueryOwner(t *testing.T) {
	tests := []struct {
		name        string
		owned       int
		failTokens  map[string]bool
		wantTokens  int
		wantTotal   int
		wantFailed  int
		wantFetches int
	}{
		{name: "fewer_than_cap", owned: 3, wantTokens: 3, wantTotal: 3, wantFetches: 3},
		{name: "capped", owned: 15, wantTokens: 10, wantTotal: 15, wantFetches: 10},
		{name: "empty_wallet", owned: 0, wantTokens: 0, wantTotal: 0, wantFetches: 0},
		{
			name:        "partial_failure",
			owned:       5,
			failTokens:  map[string]bool{"1": true, "3": true},
			wantTokens:  5,
			wantTotal:   5,
			wantFailed:  2,
			wantFetches: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockAlchemyClient)
			client.On("GetNFTsForOwner", mock.Anything, mock.MatchedBy(func(req *alchemy.GetNFTsForOwnerRequest) bool {
				return req.Owner == owner && req.PageSize == 10
			})).Return(ownedNFTs(tt.owned), nil).Once()

			var fetches atomic.Int64
			for i := range tt.owned {
				id := fmt.Sprint(i)
				call := client.On("GetNFTMetadata", mock.Anything, tokenIDIs(id)).
					Run(func(mock.Arguments) { fetches.Add(1) })
				if tt.failTokens[id] {
					call.Return(nil, &alchemy.APIError{StatusCode: http.StatusNotFound, Message: "token not found"})
				} else {
					call.Return(metadataFor(id), nil)
				}
			}

			svc := service.NewNFTService(context.Background(), testLogger(), client, nil, nil, testConfig())

			got, err := svc.QueryOwner(context.Background(), &service.QueryOwnerRequest{
				Address: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			})
			require.NoError(t, err)

			assert.Equal(t, owner, got.Address)
			assert.Equal(t, service.StatusLoaded, got.Status)
			assert.Equal(t, tt.wantTotal, got.TotalCount)
			require.Len(t, got.Tokens, tt.wantTokens)
			assert.Equal(t, tt.wantFailed, got.FailedCount())
			assert.Equal(t, int64(tt.wantFetches), fetches.Load())

			for i, tok := range got.Tokens {
				id := fmt.Sprint(i)
				assert.Equal(t, i, tok.Index)
				assert.Equal(t, id, tok.TokenID)
				if tt.failTokens[id] {
					assert.Nil(t, tok.Metadata)
					assert.Contains(t, tok.Error, "token not found")
					continue
				}
				require.NotNil(t, tok.Metadata)
				assert.Equal(t, "Token #"+id, tok.Metadata.Title)
				assert.Equal(t, "https://cache/"+id+".png", tok.Metadata.ImageURL)
				assert.Empty(t, tok.Error)
			}
		})
	}
}

func TestService_QueryOwner_InvalidAddress(t *testing.T) {
	for _, addr := range []string{"", "not-an-address", "0x1234"} {
		t.Run(addr, func(t *testing.T) {
			client := new(mockAlchemyClient)
			svc := service.NewNFTService(context.Background(), testLogger(), client, nil, nil, testConfig())

			_, err := svc.QueryOwner(context.Background(), &service.QueryOwnerRequest{Address: addr})
			require.ErrorIs(t, err, service.ErrInvalidAddress)
			client.AssertNotCalled(t, "GetNFTsForOwner", mock.Anything, mock.Anything)
		})
	}
}

func TestService_QueryOwner_LookupFailure(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int
	}{
		{
			name:      "retryable_exhausts_budget",
			err:       &alchemy.APIError{StatusCode: http.StatusServiceUnavailable, Message: "down"},
			wantCalls: 2,
		},
		{
			name:      "permanent_not_retried",
			err:       &alchemy.APIError{StatusCode: http.StatusBadRequest, Message: "bad owner"},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockAlchemyClient)
			client.On("GetNFTsForOwner", mock.Anything, mock.Anything).Return(nil, tt.err)

			svc := service.NewNFTService(context.Background(), testLogger(), client, nil, nil, testConfig())

			got, err := svc.QueryOwner(context.Background(), &service.QueryOwnerRequest{Address: owner})
			require.ErrorIs(t, err, service.ErrLookupFailed)
			assert.Nil(t, got)

			var apiErr *alchemy.APIError
			assert.True(t, errors.As(err, &apiErr))
			client.AssertNumberOfCalls(t, "GetNFTsForOwner", tt.wantCalls)
			client.AssertNotCalled(t, "GetNFTMetadata", mock.Anything, mock.Anything)
		})
	}
}

func TestService_QueryOwner_RetriesTransientMetadataErrors(t *testing.T) {
	client := new(mockAlchemyClient)
	client.On("GetNFTsForOwner", mock.Anything, mock.Anything).Return(ownedNFTs(1), nil)
	client.On("GetNFTMetadata", mock.Anything, mock.Anything).
		Return(nil, &alchemy.APIError{StatusCode: http.StatusTooManyRequests}).Once()
	client.On("GetNFTMetadata", mock.Anything, mock.Anything).
		Return(metadataFor("0"), nil).Once()

	svc := service.NewNFTService(context.Background(), testLogger(), client, nil, nil, testConfig())

	got, err := svc.QueryOwner(context.Background(), &service.QueryOwnerRequest{Address: owner})
	require.NoError(t, err)
	require.Len(t, got.Tokens, 1)
	assert.Empty(t, got.Tokens[0].Error)
	client.AssertNumberOfCalls(t, "GetNFTMetadata", 2)
}

func TestService_QueryOwner_CachesMetadata(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	redisCache := cache.NewRedis(rdb, "nft:")

	client := new(mockAlchemyClient)
	client.On("GetNFTsForOwner", mock.Anything, mock.Anything).Return(ownedNFTs(2), nil)
	client.On("GetNFTMetadata", mock.Anything, tokenIDIs("0")).Return(metadataFor("0"), nil)
	client.On("GetNFTMetadata", mock.Anything, tokenIDIs("1")).Return(metadataFor("1"), nil)

	cfg := testConfig()
	cfg.MetadataCacheTTL = time.Minute
	svc := service.NewNFTService(context.Background(), testLogger(), client, redisCache, nil, cfg)

	for range 2 {
		got, err := svc.QueryOwner(context.Background(), &service.QueryOwnerRequest{Address: owner})
		require.NoError(t, err)
		require.Len(t, got.Tokens, 2)
		assert.Equal(t, "Token #1", got.Tokens[1].Metadata.Title)
	}

	client.AssertNumberOfCalls(t, "GetNFTMetadata", 2)
	assert.True(t, mr.Exists("nft:metadata:0xcontract:0"))

	// A corrupt entry is dropped and refetched.
	require.NoError(t, mr.Set("nft:metadata:0xcontract:0", "{not json"))
	got, err := svc.QueryOwner(context.Background(), &service.QueryOwnerRequest{Address: owner})
	require.NoError(t, err)
	assert.Equal(t, "Token #0", got.Tokens[0].Metadata.Title)
	client.AssertNumberOfCalls(t, "GetNFTMetadata", 3)
}

func TestService_QueryWallet(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		client := new(mockAlchemyClient)
		client.On("GetNFTsForOwner", mock.Anything, mock.MatchedBy(func(req *alchemy.GetNFTsForOwnerRequest) bool {
			return req.Owner == owner
		})).Return(ownedNFTs(0), nil)

		svc := service.NewNFTService(context.Background(), testLogger(), client, nil, nil, testConfig())

		got, err := svc.QueryWallet(context.Background(), wallet.NewStatic(owner))
		require.NoError(t, err)
		assert.Equal(t, owner, got.Address)
		assert.Empty(t, got.Tokens)
	})

	t.Run("not_connected", func(t *testing.T) {
		client := new(mockAlchemyClient)
		svc := service.NewNFTService(context.Background(), testLogger(), client, nil, nil, testConfig())

		_, err := svc.QueryWallet(context.Background(), wallet.NewStatic(""))
		require.ErrorIs(t, err, service.ErrWalletUnavailable)
		client.AssertNotCalled(t, "GetNFTsForOwner", mock.Anything, mock.Anything)
	})
}

func TestService_Health(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := service.NewNFTService(context.Background(), testLogger(), new(mockAlchemyClient),
		cache.NewRedis(rdb, "nft:"), nil, testConfig())

	got, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.HealthOK, got.Status)
	require.NotNil(t, got.Cache)

	mr.Close()

	got, err = svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.HealthDegraded, got.Status)
}
