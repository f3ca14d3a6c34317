// Package wallet abstracts the source of a wallet address.
//
// A Provider either already knows the selected account or has to ask for
// access to one. Callers treat a refusal as ErrUnavailable, never as a crash.
package wallet

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnavailable is returned when no wallet is connected or access was declined.
var ErrUnavailable = errors.New("wallet unavailable")

// HeaderAddress carries the connected wallet account on HTTP requests.
const HeaderAddress = "X-Wallet-Address"

type Provider interface {
	// SelectedAddress returns the currently selected account, if any.
	SelectedAddress(ctx context.Context) (string, bool)
	// RequestAccess asks for an account. It fails with ErrUnavailable when
	// there is no wallet or the user declined.
	RequestAccess(ctx context.Context) (string, error)
}

// Static is a Provider backed by a fixed address, e.g. from configuration.
type Static struct {
	Address string
}

func NewStatic(address string) *Static {
	return &Static{Address: strings.TrimSpace(address)}
}

func (s *Static) SelectedAddress(_ context.Context) (string, bool) {
	return s.Address, s.Address != ""
}

func (s *Static) RequestAccess(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Address == "" {
		return "", ErrUnavailable
	}
	return s.Address, nil
}

// Header reads the account the client-side wallet reported on a request.
// The server cannot prompt the user, so RequestAccess only succeeds when the
// header is present.
type Header struct {
	address string
}

func FromRequest(r *http.Request) *Header {
	return &Header{address: strings.TrimSpace(r.Header.Get(HeaderAddress))}
}

func (h *Header) SelectedAddress(_ context.Context) (string, bool) {
	return h.address, h.address != ""
}

func (h *Header) RequestAccess(_ context.Context) (string, error) {
	if h.address == "" {
		return "", ErrUnavailable
	}
	return h.address, nil
}

// Resolve returns the selected address of p, requesting access when none is
// selected yet.
func Resolve(ctx context.Context, p Provider) (string, error) {
	if p == nil {
		return "", ErrUnavailable
	}
	if addr, ok := p.SelectedAddress(ctx); ok {
		return addr, nil
	}
	addr, err := p.RequestAccess(ctx)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return "", err
		}
		return "", errors.Join(ErrUnavailable, err)
	}
	if addr == "" {
		return "", ErrUnavailable
	}
	return addr, nil
}
