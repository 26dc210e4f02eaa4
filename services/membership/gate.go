package membership

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"roomdesk/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CRMMemberGate checks contract status against the CRM's HTTP API. Verdicts
// are cached in redis for a short TTL so a chatty conversation does not hammer
// the CRM.
type CRMMemberGate struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      *redis.Client
	CacheTTL   time.Duration
}

// NewCRMMemberGate builds the gate with a bounded HTTP client.
func NewCRMMemberGate(baseURL string, timeout time.Duration, cache *redis.Client, cacheTTL time.Duration) *CRMMemberGate {
	return &CRMMemberGate{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Cache:      cache,
		CacheTTL:   cacheTTL,
	}
}

type contractResponse struct {
	Active bool `json:"active"`
}

// HasActiveContract returns whether the customer holds an active contract.
// Only a definitive "no" denies; transport errors propagate so the caller can
// distinguish a denial from a CRM outage.
func (g *CRMMemberGate) HasActiveContract(ctx context.Context, customerID string) (bool, error) {
	logger := utils.GetLogger()
	cacheKey := utils.GateCachePrefix + customerID

	if g.Cache != nil {
		if cached, err := g.Cache.Get(ctx, cacheKey).Result(); err == nil {
			return cached == "1", nil
		}
	}

	url := fmt.Sprintf("%s/api/customers/%s/contract", g.BaseURL, customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build CRM request: %w", err)
	}
	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("CRM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Unknown customer: no contract.
		g.storeVerdict(ctx, cacheKey, false)
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("CRM returned status %d", resp.StatusCode)
	}

	var contract contractResponse
	if err := json.NewDecoder(resp.Body).Decode(&contract); err != nil {
		return false, fmt.Errorf("failed to decode CRM response: %w", err)
	}

	g.storeVerdict(ctx, cacheKey, contract.Active)
	logger.Debug("member gate verdict",
		zap.String("customerID", customerID),
		zap.Bool("active", contract.Active))
	return contract.Active, nil
}

func (g *CRMMemberGate) storeVerdict(ctx context.Context, key string, active bool) {
	if g.Cache == nil {
		return
	}
	val := "0"
	if active {
		val = "1"
	}
	if err := g.Cache.Set(ctx, key, val, g.CacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache gate verdict", zap.String("key", key), zap.Error(err))
	}
}
