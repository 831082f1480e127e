package integration_test

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/dnguyen/cinema-booking/internal/app"
	"github.com/dnguyen/cinema-booking/internal/mailer"
	"github.com/dnguyen/cinema-booking/internal/payment"
	"github.com/dnguyen/cinema-booking/internal/repository"
	appvalidator "github.com/dnguyen/cinema-booking/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

type TestApp struct {
	App            *app.Application
	DB             *pgxpool.Pool
	Mailer         *mailer.MockMailer
	Gateway        *payment.Gateway
	SessionManager *scs.SessionManager
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	sessionManager := app.NewSessionManager(redisClient)

	gateway := payment.NewGateway(
		cfg.Gateway.Endpoint,
		cfg.Gateway.PartnerCode,
		cfg.Gateway.AccessKey,
		cfg.Gateway.SecretKey,
		cfg.Gateway.ReturnURL,
		cfg.Gateway.NotifyURL,
	)

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mockMailer,
		sessionManager,
		repository.NewPostgresUserRepository(db),
		repository.NewPostgresScreeningRepository(db),
		repository.NewPostgresSeatRepository(db),
		repository.NewPostgresHoldRepository(db),
		repository.NewPostgresBookingRepository(db),
		repository.NewPostgresPaymentRepository(db),
		gateway,
	)

	return &TestApp{
		App:            application,
		DB:             db,
		Mailer:         mockMailer,
		Gateway:        gateway,
		SessionManager: sessionManager,
	}, nil
}

// authenticatedUserCookies mints a session for the given user directly in the
// session store, standing in for the login flow owned by the account service.
func (ta *TestApp) authenticatedUserCookies(t testing.TB, userId int) []http.Cookie {
	ctx, err := ta.SessionManager.Load(context.Background(), "")
	require.NoError(t, err)

	ta.SessionManager.Put(ctx, app.SessionKeyUserId.String(), userId)

	token, _, err := ta.SessionManager.Commit(ctx)
	require.NoError(t, err)

	return []http.Cookie{{Name: "session_id", Value: token}}
}
