package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/aafab/recadastro/internal/audit"
	"github.com/aafab/recadastro/internal/auth"
	"github.com/aafab/recadastro/internal/metrics"
)

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("senha incorreta")
	// ErrRefreshInvalid indica refresh token inválido ou expirado.
	ErrRefreshInvalid = errors.New("refresh token inválido")
)

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type auditor interface {
	Record(ctx context.Context, evento, detalhe, ip string)
}

// AuthService autentica o administrador do portal contra a credencial
// única configurada e mantém a sessão via refresh token no Redis.
type AuthService struct {
	redis      redisCommander
	jwt        *auth.JWTManager
	refreshTTL time.Duration
	adminHash  string
	audit      auditor
	metrics    *metrics.Metrics
}

// NewAuthService cria novo serviço. adminHash é um hash Argon2id.
func NewAuthService(redisClient redisCommander, jwtMgr *auth.JWTManager, refreshTTL time.Duration, adminHash string, auditor auditor, m *metrics.Metrics) *AuthService {
	return &AuthService{
		redis:      redisClient,
		jwt:        jwtMgr,
		refreshTTL: refreshTTL,
		adminHash:  adminHash,
		audit:      auditor,
		metrics:    m,
	}
}

// JWT expõe gerenciador de JWT (útil em middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// LoginResult representa retorno padrão de autenticações.
type LoginResult struct {
	AccessToken   string
	RefreshToken  string
	RefreshExpiry time.Time
	ExpiresIn     time.Duration
}

// Login valida a senha administrativa e emite as credenciais.
// Tentativas rejeitadas entram na trilha de auditoria.
func (s *AuthService) Login(ctx context.Context, senha, ip string) (*LoginResult, error) {
	ok := false
	if senha != "" {
		var err error
		ok, err = auth.Verify(senha, s.adminHash)
		if err != nil {
			log.Error().Err(err).Msg("hash administrativo inválido")
			ok = false
		}
	}

	if !ok {
		if s.audit != nil {
			s.audit.Record(ctx, audit.EventoAdminLoginFalhou, "tentativa de login com senha incorreta", ip)
		}
		if s.metrics != nil {
			s.metrics.LoginsFalhos.Inc()
		}
		return nil, ErrInvalidCredentials
	}

	result, err := s.issue(ctx)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.Record(ctx, audit.EventoAdminLogin, "login administrativo bem-sucedido", ip)
	}
	return result, nil
}

// Refresh rotaciona a sessão: revoga o refresh atual e emite outro par.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*LoginResult, error) {
	key := auth.RefreshRedisKey(auth.HashRefreshToken(rawRefresh))

	if err := s.redis.Get(ctx, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	_ = s.redis.Del(ctx, key)

	return s.issue(ctx)
}

// Logout revoga o refresh token atual.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	key := auth.RefreshRedisKey(auth.HashRefreshToken(rawRefresh))
	return s.redis.Del(ctx, key).Err()
}

func (s *AuthService) issue(ctx context.Context) (*LoginResult, error) {
	access, _, err := s.jwt.GenerateAccessToken(auth.AudienceAdmin, []string{auth.RoleAdmin})
	if err != nil {
		return nil, err
	}

	rawRefresh, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(s.refreshTTL)
	if err := s.redis.Set(ctx, auth.RefreshRedisKey(hash), auth.AudienceAdmin, s.refreshTTL).Err(); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:   access,
		RefreshToken:  rawRefresh,
		RefreshExpiry: expiry,
		ExpiresIn:     s.jwt.AccessTTL(),
	}, nil
}
