package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	cases := map[string]struct {
		handler  custody.Handler
		deliver  bool
		wantErr  *errors.Error
		contains []string
		excludes []string
	}{
		"successful deliver": {
			handler:  &custodytest.Handler{DeliverResult: custody.DeliverResult{Log: "transfer created"}},
			deliver:  true,
			contains: []string{"transfer created", "path=wallet/create_transfer", "duration="},
			excludes: []string{"err="},
		},
		"failed deliver": {
			handler:  &custodytest.Handler{DeliverErr: errors.ErrUnauthorized},
			deliver:  true,
			wantErr:  errors.ErrUnauthorized,
			contains: []string{"err=unauthorized", "code=2"},
		},
		"successful check": {
			handler:  &custodytest.Handler{CheckResult: custody.CheckResult{Log: "looks fine"}},
			contains: []string{"looks fine", "caller="},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := custody.WithLogger(context.Background(), log.NewTMLogger(&buf))
			ctx = custody.WithCaller(ctx, custodytest.RandomAddr(t))
			msg := &custodytest.Msg{RoutePath: "wallet/create_transfer"}

			var err error
			if tc.deliver {
				_, err = NewLogging().Deliver(ctx, store.MemStore(), msg, tc.handler)
			} else {
				_, err = NewLogging().Check(ctx, store.MemStore(), msg, tc.handler)
			}
			assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)

			out := buf.String()
			for _, want := range tc.contains {
				assert.True(t, strings.Contains(out, want), "%q not in %q", want, out)
			}
			for _, unwanted := range tc.excludes {
				assert.False(t, strings.Contains(out, unwanted), "%q in %q", unwanted, out)
			}
		})
	}
}
