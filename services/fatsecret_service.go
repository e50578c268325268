package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bordanattila/NutriPal-sub000/models"
	"github.com/bordanattila/NutriPal-sub000/store"
)

// TokenCache holds one OAuth access token with its expiry. It is an explicit
// injected object, not module-level state, so tests can substitute the clock
// and multiple clients never share tokens by accident.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

func NewTokenCache() *TokenCache {
	return &TokenCache{now: time.Now}
}

// Get returns the cached token while it is still fresh, otherwise invokes
// refresh and caches the result. Tokens are renewed 30s before their actual
// expiry so in-flight requests do not race the deadline.
func (c *TokenCache) Get(ctx context.Context, refresh func(context.Context) (string, time.Duration, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, nil
	}

	token, ttl, err := refresh(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	c.expiresAt = c.now().Add(ttl - 30*time.Second)
	return token, nil
}

// FoodRecord is a food-database result with its serving options, already
// mapped onto our seven nutrition scalars.
type FoodRecord struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Brand       string           `json:"brand,omitempty"`
	Description string           `json:"description,omitempty"`
	Servings    []models.Serving `json:"servings,omitempty"`
}

// FoodDatabase is the boundary to the third-party food database. The ledger
// core never calls it directly; only the food lookup surface does.
type FoodDatabase interface {
	LookupBarcode(ctx context.Context, ean13 string) (*FoodRecord, error)
	Search(ctx context.Context, query string) ([]FoodRecord, error)
}

// FatSecretService talks to the FatSecret platform API using OAuth2 client
// credentials.
type FatSecretService struct {
	clientID     string
	clientSecret string
	tokens       *TokenCache
	client       *http.Client
}

const (
	fatSecretTokenURL = "https://oauth.fatsecret.com/connect/token"
	fatSecretAPIURL   = "https://platform.fatsecret.com/rest/server.api"
)

func NewFatSecretService(tokens *TokenCache) *FatSecretService {
	return &FatSecretService{
		clientID:     os.Getenv("FATSECRET_CLIENT_ID"),
		clientSecret: os.Getenv("FATSECRET_CLIENT_SECRET"),
		tokens:       tokens,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *FatSecretService) fetchToken(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {"basic barcode"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fatSecretTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to call FatSecret token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("fatsecret token error %d: %s", resp.StatusCode, string(body))
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", 0, fmt.Errorf("failed to parse token JSON: %w", err)
	}
	return tr.AccessToken, time.Duration(tr.ExpiresIn) * time.Second, nil
}

func (s *FatSecretService) call(ctx context.Context, params url.Values) ([]byte, error) {
	token, err := s.tokens.Get(ctx, s.fetchToken)
	if err != nil {
		return nil, err
	}

	params.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fatSecretAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call FatSecret API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read API response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fatsecret API error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// FatSecret encodes numbers as strings throughout its JSON. An empty field
// means the value was not reported and reads as 0; anything else must parse.
func parseScalar(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse nutrition scalar %q: %w", s, err)
	}
	return f, nil
}

type fsServing struct {
	ServingID          string `json:"serving_id"`
	ServingDescription string `json:"serving_description"`
	Calories           string `json:"calories"`
	Carbohydrate       string `json:"carbohydrate"`
	Protein            string `json:"protein"`
	Fat                string `json:"fat"`
	SaturatedFat       string `json:"saturated_fat"`
	Sodium             string `json:"sodium"`
	Fiber              string `json:"fiber"`
}

type fsFood struct {
	FoodID    string `json:"food_id"`
	FoodName  string `json:"food_name"`
	BrandName string `json:"brand_name"`
	Servings  struct {
		Serving []fsServing `json:"serving"`
	} `json:"servings"`
}

func (sv fsServing) toNutrition() (models.Nutrition, error) {
	var n models.Nutrition
	for _, field := range []struct {
		raw string
		dst *float64
	}{
		{sv.Calories, &n.Calories},
		{sv.Carbohydrate, &n.Carbohydrate},
		{sv.Protein, &n.Protein},
		{sv.Fat, &n.Fat},
		{sv.SaturatedFat, &n.SaturatedFat},
		{sv.Sodium, &n.Sodium},
		{sv.Fiber, &n.Fiber},
	} {
		v, err := parseScalar(field.raw)
		if err != nil {
			return models.Nutrition{}, err
		}
		*field.dst = v
	}
	return n, nil
}

func (f fsFood) toRecord() (*FoodRecord, error) {
	rec := &FoodRecord{ID: f.FoodID, Name: f.FoodName, Brand: f.BrandName}
	for _, sv := range f.Servings.Serving {
		n, err := sv.toNutrition()
		if err != nil {
			return nil, fmt.Errorf("serving %s: %w", sv.ServingID, err)
		}
		rec.Servings = append(rec.Servings, models.Serving{
			ServingID:   sv.ServingID,
			Description: sv.ServingDescription,
			Nutrition:   n,
		})
	}
	return rec, nil
}

// LookupBarcode resolves a 13-digit EAN to a food record with its servings.
// An unknown barcode surfaces as store.ErrNotFound.
func (s *FatSecretService) LookupBarcode(ctx context.Context, ean13 string) (*FoodRecord, error) {
	body, err := s.call(ctx, url.Values{
		"method":  {"food.find_id_for_barcode"},
		"barcode": {ean13},
	})
	if err != nil {
		return nil, err
	}

	var br struct {
		FoodID struct {
			Value string `json:"value"`
		} `json:"food_id"`
	}
	if err := json.Unmarshal(body, &br); err != nil {
		return nil, fmt.Errorf("failed to parse barcode JSON: %w", err)
	}
	if br.FoodID.Value == "" || br.FoodID.Value == "0" {
		return nil, store.ErrNotFound
	}
	return s.GetFood(ctx, br.FoodID.Value)
}

func (s *FatSecretService) GetFood(ctx context.Context, foodID string) (*FoodRecord, error) {
	body, err := s.call(ctx, url.Values{
		"method":  {"food.get.v2"},
		"food_id": {foodID},
	})
	if err != nil {
		return nil, err
	}

	var fr struct {
		Food fsFood `json:"food"`
	}
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("failed to parse food JSON: %w", err)
	}
	return fr.Food.toRecord()
}

func (s *FatSecretService) Search(ctx context.Context, query string) ([]FoodRecord, error) {
	body, err := s.call(ctx, url.Values{
		"method":            {"foods.search"},
		"search_expression": {query},
	})
	if err != nil {
		return nil, err
	}

	var sr struct {
		Foods struct {
			Food []struct {
				FoodID          string `json:"food_id"`
				FoodName        string `json:"food_name"`
				BrandName       string `json:"brand_name"`
				FoodDescription string `json:"food_description"`
			} `json:"food"`
		} `json:"foods"`
	}
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse search JSON: %w", err)
	}

	results := make([]FoodRecord, 0, len(sr.Foods.Food))
	for _, f := range sr.Foods.Food {
		results = append(results, FoodRecord{
			ID:          f.FoodID,
			Name:        f.FoodName,
			Brand:       f.BrandName,
			Description: f.FoodDescription,
		})
	}
	return results, nil
}
