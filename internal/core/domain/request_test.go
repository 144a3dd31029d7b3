package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoveryRequestValidate(t *testing.T) {
	valid := DiscoveryRequest{
		Pattern: "NetworkPolicy",
		Orgs:    []string{"openshift"},
		TopK:    5,
	}

	tests := []struct {
		name    string
		mutate  func(*DiscoveryRequest)
		wantErr bool
	}{
		{name: "valid request", mutate: func(*DiscoveryRequest) {}, wantErr: false},
		{name: "empty pattern", mutate: func(r *DiscoveryRequest) { r.Pattern = "" }, wantErr: true},
		{name: "whitespace pattern", mutate: func(r *DiscoveryRequest) { r.Pattern = "   " }, wantErr: true},
		{name: "no orgs", mutate: func(r *DiscoveryRequest) { r.Orgs = nil }, wantErr: true},
		{name: "blank org", mutate: func(r *DiscoveryRequest) { r.Orgs = []string{"openshift", " "} }, wantErr: true},
		{name: "k zero rejected", mutate: func(r *DiscoveryRequest) { r.TopK = 0 }, wantErr: true},
		{name: "k below range", mutate: func(r *DiscoveryRequest) { r.TopK = 2 }, wantErr: true},
		{name: "k above range", mutate: func(r *DiscoveryRequest) { r.TopK = 1000 }, wantErr: true},
		{name: "k lower bound", mutate: func(r *DiscoveryRequest) { r.TopK = MinTopK }, wantErr: false},
		{name: "k upper bound", mutate: func(r *DiscoveryRequest) { r.TopK = MaxTopK }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.Orgs = append([]string(nil), valid.Orgs...)
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEffectiveMaxResults(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "zero defaults to cap", in: 0, want: MaxSearchResults},
		{name: "negative defaults to cap", in: -5, want: MaxSearchResults},
		{name: "above cap is clamped", in: 5000, want: MaxSearchResults},
		{name: "in range unchanged", in: 200, want: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DiscoveryRequest{MaxResults: tt.in}
			assert.Equal(t, tt.want, req.EffectiveMaxResults())
		})
	}
}

func TestQueryKeyStable(t *testing.T) {
	a := DiscoveryRequest{Pattern: "Singleton", Orgs: []string{"kubernetes", "openshift"}, TopK: 10, Language: "Go"}
	b := DiscoveryRequest{Pattern: "Singleton", Orgs: []string{"OpenShift", "kubernetes"}, TopK: 10, Language: "go"}

	// Org order and casing must not affect the key.
	assert.Equal(t, a.QueryKey(), b.QueryKey())
	assert.Len(t, a.QueryKey(), 16)
}

func TestRequestMethodsOnReturnedValue(t *testing.T) {
	// Helpers often return requests by value; Validate and QueryKey
	// must be callable on the rvalue directly, without binding it to
	// a variable first.
	newReq := func() DiscoveryRequest {
		return DiscoveryRequest{Pattern: "Observer", Orgs: []string{"openshift"}, TopK: 5}
	}

	assert.NoError(t, newReq().Validate())
	assert.Equal(t, newReq().QueryKey(), newReq().QueryKey())
	assert.Equal(t, MaxSearchResults, newReq().EffectiveMaxResults())
}

func TestQueryKeyDistinguishesParameters(t *testing.T) {
	base := DiscoveryRequest{Pattern: "Singleton", Orgs: []string{"openshift"}, TopK: 10}

	changed := base
	changed.TopK = 11
	assert.NotEqual(t, base.QueryKey(), changed.QueryKey())

	changed = base
	changed.Pattern = "Factory"
	assert.NotEqual(t, base.QueryKey(), changed.QueryKey())

	changed = base
	changed.Language = "go"
	assert.NotEqual(t, base.QueryKey(), changed.QueryKey())

	changed = base
	changed.Orgs = []string{"kubernetes"}
	assert.NotEqual(t, base.QueryKey(), changed.QueryKey())
}
