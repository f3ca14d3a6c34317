package wallet_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavprovich/nft-indexer/pkg/wallet"
)

func TestNormalize(t *testing.T) {
	// EIP-55 reference vectors.
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}

	for _, want := range vectors {
		t.Run(want, func(t *testing.T) {
			got, err := wallet.Normalize(strings.ToLower(want))
			require.NoError(t, err)
			assert.Equal(t, want, got)

			got, err = wallet.Normalize(want)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			got, err = wallet.Normalize("  " + "0x" + strings.ToUpper(want[2:]) + " ")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		address string
	}{
		{name: "empty", address: ""},
		{name: "no_prefix", address: "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed00"},
		{name: "short", address: "0x5aaeb6053f3e94c9b9a09f"},
		{name: "not_hex", address: "0xZZaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		{name: "bad_checksum", address: "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{name: "ens_name", address: "vitalik.eth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wallet.Normalize(tt.address)
			assert.ErrorIs(t, err, wallet.ErrInvalidAddress)
		})
	}
}

type decliningProvider struct{}

func (decliningProvider) SelectedAddress(context.Context) (string, bool) { return "", false }

func (decliningProvider) RequestAccess(context.Context) (string, error) {
	return "", errors.New("user rejected the request")
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("selected", func(t *testing.T) {
		addr, err := wallet.Resolve(ctx, wallet.NewStatic("0xabc"))
		require.NoError(t, err)
		assert.Equal(t, "0xabc", addr)
	})

	t.Run("static_empty", func(t *testing.T) {
		_, err := wallet.Resolve(ctx, wallet.NewStatic(" "))
		assert.ErrorIs(t, err, wallet.ErrUnavailable)
	})

	t.Run("nil_provider", func(t *testing.T) {
		_, err := wallet.Resolve(ctx, nil)
		assert.ErrorIs(t, err, wallet.ErrUnavailable)
	})

	t.Run("declined", func(t *testing.T) {
		_, err := wallet.Resolve(ctx, decliningProvider{})
		assert.ErrorIs(t, err, wallet.ErrUnavailable)
		assert.Contains(t, err.Error(), "user rejected the request")
	})

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/wallet/nfts", nil)
		req.Header.Set(wallet.HeaderAddress, " 0xdef ")

		addr, err := wallet.Resolve(ctx, wallet.FromRequest(req))
		require.NoError(t, err)
		assert.Equal(t, "0xdef", addr)
	})

	t.Run("header_missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/wallet/nfts", nil)

		_, err := wallet.Resolve(ctx, wallet.FromRequest(req))
		assert.ErrorIs(t, err, wallet.ErrUnavailable)
	})
}
