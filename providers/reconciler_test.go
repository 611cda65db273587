package providers

import "testing"

func TestProviderFor(t *testing.T) {
	cases := []struct {
		name     string
		extra    map[string]string
		provider string
		objectID string
	}{
		{
			name:     "stripe checkout session",
			extra:    map[string]string{"session_id": "cs_test_abc123"},
			provider: "stripe",
			objectID: "cs_test_abc123",
		},
		{
			name:     "session_id without cs_ prefix is not stripe",
			extra:    map[string]string{"session_id": "sess_other"},
			provider: "",
		},
		{
			name:     "polar checkout",
			extra:    map[string]string{"checkout_id": "chk_123"},
			provider: "polar",
			objectID: "chk_123",
		},
		{
			name:     "dodo subscription",
			extra:    map[string]string{"subscription_id": "sub_123"},
			provider: "dodo_subscription",
			objectID: "sub_123",
		},
		{
			name:     "dodo payment",
			extra:    map[string]string{"payment_id": "pay_123"},
			provider: "dodo_payment",
			objectID: "pay_123",
		},
		{
			name:     "lemonsqueezy order has no helper",
			extra:    map[string]string{"order_id": "ord_123"},
			provider: "",
		},
		{
			name:     "ad click ids alone match nothing",
			extra:    map[string]string{"gclid": "xyz"},
			provider: "",
		},
		{
			name:     "stripe wins over dodo when both present",
			extra:    map[string]string{"session_id": "cs_1", "payment_id": "pay_1"},
			provider: "stripe",
			objectID: "cs_1",
		},
	}

	for _, tc := range cases {
		provider, objectID := providerFor(tc.extra)
		if provider != tc.provider {
			t.Fatalf("%s: want provider %q, got %q", tc.name, tc.provider, provider)
		}
		if tc.provider != "" && objectID != tc.objectID {
			t.Fatalf("%s: want object id %q, got %q", tc.name, tc.objectID, objectID)
		}
	}
}
