package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"football-matches-notifier-bot/timezone"
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

type Service struct {
	client       *http.Client
	baseURL      string
	token        string
	competitions []string
	logger       *zap.Logger
}

type Option func(*Service)

func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			s.baseURL = baseURL
		}
	}
}

func WithCompetitions(codes ...string) Option {
	return func(s *Service) {
		s.competitions = codes
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(token string, opts ...Option) *Service {
	s := &Service{
		client:       &http.Client{Timeout: requestTimeout},
		baseURL:      DefaultBaseURL,
		token:        strings.TrimSpace(token),
		competitions: CompetitionCodes,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Matches requests the fixtures of one competition between two local dates, inclusive.
func (s *Service) Matches(ctx context.Context, code string, from, to time.Time) ([]Match, error) {
	query := url.Values{}
	query.Set(dateFromParam, timezone.FormatDate(from))
	query.Set(dateToParam, timezone.FormatDate(to))
	endpoint := s.baseURL + fmt.Sprintf(matchesPath, url.PathEscape(code)) + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build request")
	}
	req.Header.Set(AuthHeader, s.token)
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error on calling football-data for %v", code)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Wrapf(ErrUnexpectedStatus, "%v for %v", resp.StatusCode, code)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "error during reading matches of %v", code)
	}
	var payload matchesResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrapf(err, "unable to decode matches of %v", code)
	}
	return payload.Matches, nil
}
