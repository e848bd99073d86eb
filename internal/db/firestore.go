package db

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/option"

	"ecotrack-backend-go/internal/config"
)

// ErrNotInitialized is returned by Client before a connection has been established.
var ErrNotInitialized = errors.New("firestore client not initialized")

// DialFunc opens a new Firestore client.
type DialFunc func(ctx context.Context) (*firestore.Client, error)

// Accessor hands out the process-wide Firestore client. The first Connect
// dials; concurrent callers during that attempt share its result. A failed
// attempt is not memoized.
type Accessor struct {
	dial  DialFunc
	group singleflight.Group

	mu     sync.RWMutex
	client *firestore.Client
	ready  chan struct{}
	once   sync.Once
}

// NewAccessor creates an Accessor that opens connections with dial.
func NewAccessor(dial DialFunc) *Accessor {
	return &Accessor{dial: dial, ready: make(chan struct{})}
}

// NewFirestoreAccessor creates an Accessor for the named database in cfg.
func NewFirestoreAccessor(cfg *config.Config, logger *zap.Logger) *Accessor {
	return NewAccessor(func(ctx context.Context) (*firestore.Client, error) {
		opts, err := ClientOptions(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Connecting to Firestore",
			zap.String("project", cfg.FirebaseProjectID),
			zap.String("database", cfg.FirestoreDatabase),
		)
		client, err := firestore.NewClientWithDatabase(ctx, cfg.FirebaseProjectID, cfg.FirestoreDatabase, opts...)
		if err != nil {
			return nil, fmt.Errorf("firestore.NewClientWithDatabase: %w", err)
		}
		return client, nil
	})
}

// Connect returns the memoized client, dialing if needed.
func (a *Accessor) Connect(ctx context.Context) (*firestore.Client, error) {
	if client, err := a.Client(); err == nil {
		return client, nil
	}

	v, err, _ := a.group.Do("connect", func() (interface{}, error) {
		if client, err := a.Client(); err == nil {
			return client, nil
		}
		client, err := a.dial(ctx)
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		a.client = client
		a.mu.Unlock()
		a.once.Do(func() { close(a.ready) })
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*firestore.Client), nil
}

// Client returns the memoized client or ErrNotInitialized.
func (a *Accessor) Client() (*firestore.Client, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.client == nil {
		return nil, ErrNotInitialized
	}
	return a.client, nil
}

// Wait blocks until a connection has been established or ctx is done.
func (a *Accessor) Wait(ctx context.Context) (*firestore.Client, error) {
	select {
	case <-a.ready:
		return a.Client()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close releases the client, if any.
func (a *Accessor) Close() error {
	a.mu.Lock()
	client := a.client
	a.client = nil
	a.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Close()
}

// ClientOptions builds the credentials option shared by Firestore and Firebase Auth.
// Inline service account fields win over a credentials file, which wins over base64 JSON.
func ClientOptions(cfg *config.Config) ([]option.ClientOption, error) {
	switch {
	case cfg.FirebaseClientEmail != "" && cfg.FirebasePrivateKey != "":
		creds, err := json.Marshal(map[string]string{
			"type":         "service_account",
			"project_id":   cfg.FirebaseProjectID,
			"client_email": cfg.FirebaseClientEmail,
			"private_key":  cfg.FirebasePrivateKey,
			"token_uri":    "https://oauth2.googleapis.com/token",
		})
		if err != nil {
			return nil, fmt.Errorf("encode service account: %w", err)
		}
		return []option.ClientOption{option.WithCredentialsJSON(creds)}, nil
	case cfg.GoogleApplicationCredentials != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.GoogleApplicationCredentials)}, nil
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}, nil
	}
	// Application Default Credentials.
	return nil, nil
}

// NewAuthClient initializes the Firebase Admin SDK and returns its Auth client.
func NewAuthClient(ctx context.Context, cfg *config.Config) (*auth.Client, error) {
	opts, err := ClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Auth: %w", err)
	}
	return authClient, nil
}
