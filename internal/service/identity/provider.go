package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/kapu/mathsprint-site-go/internal/constants"
)

// ProviderConfig: OAuth 제공자 접속 정보
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
	Scopes       []string
}

// Provider: 표준 Authorization Code 흐름을 수행하는 OAuth 클라이언트.
// 엔드포인트를 설정으로 받아 제공자(Google, Kakao 등)에 종속되지 않는다.
type Provider struct {
	oauth       *oauth2.Config
	userInfoURL string
}

// UserInfo: 제공자 userinfo 응답에서 추출한 프로필
type UserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ExternalID: 제공자가 부여한 사용자 식별자를 반환한다. (sub 우선, 없으면 id)
func (u *UserInfo) ExternalID() string {
	if u.Sub != "" {
		return u.Sub
	}
	return u.ID
}

// NewProvider: OAuth 제공자 클라이언트를 생성한다.
func NewProvider(cfg ProviderConfig) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
	}
}

// AuthCodeURL: 주어진 state로 인가 요청 URL을 만든다.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange: 인가 코드를 액세스 토큰으로 교환한다.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

// FetchUserInfo: 액세스 토큰으로 제공자 userinfo 엔드포인트를 조회한다.
func (p *Provider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout.UserInfo)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned status %d: %s", resp.StatusCode, string(body))
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.ExternalID() == "" {
		return nil, fmt.Errorf("userinfo response has no subject identifier")
	}

	return &info, nil
}
