package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrNotFound is returned by lookups of a single row that does not exist
var ErrNotFound = errors.New("not found")

func Connect(ctx context.Context, databaseURL string, logger *zap.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("connecting to database", zap.String("url", SafeDatabaseURL(databaseURL)))

	if err := checkSSL(databaseURL, logger); err != nil {
		return nil, fmt.Errorf("failed to configure SSL: %w", err)
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	logger.Info("database connection established")
	return db, nil
}

// SafeDatabaseURL strips the password from a database URL for logging
func SafeDatabaseURL(databaseURL string) string {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "(unparseable url)"
	}

	safe := &url.URL{
		Scheme:   parsed.Scheme,
		Host:     parsed.Host,
		Path:     parsed.Path,
		RawQuery: parsed.RawQuery,
	}
	if parsed.User != nil && parsed.User.Username() != "" {
		safe.User = url.User(parsed.User.Username())
	}
	return safe.String()
}

// checkSSL validates the sslmode of a database URL and the certificate files
// it refers to before lib/pq tries to use them
func checkSSL(databaseURL string, logger *zap.Logger) error {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	query := parsed.Query()
	sslMode := query.Get("sslmode")
	sslCert := query.Get("sslcert")
	sslKey := query.Get("sslkey")
	sslRootCert := query.Get("sslrootcert")

	switch sslMode {
	case "", "disable":
		logger.Info("database SSL disabled")
		return nil
	case "require":
		logger.Info("database SSL required without certificate validation")
		return nil
	case "verify-ca", "verify-full":
		if sslRootCert == "" {
			return fmt.Errorf("sslrootcert is required for %s mode", sslMode)
		}
		logger.Info("database SSL certificate validation",
			zap.String("mode", sslMode), zap.String("root_cert", sslRootCert))
		return checkCertificates(sslRootCert, sslCert, sslKey)
	default:
		return fmt.Errorf("unsupported SSL mode: %s", sslMode)
	}
}

func checkCertificates(rootCertFile, clientCertFile, clientKeyFile string) error {
	caCert, err := os.ReadFile(rootCertFile)
	if err != nil {
		return fmt.Errorf("failed to read CA certificate file %s: %w", rootCertFile, err)
	}
	if !x509.NewCertPool().AppendCertsFromPEM(caCert) {
		return fmt.Errorf("failed to parse CA certificate from %s", rootCertFile)
	}

	if clientCertFile != "" || clientKeyFile != "" {
		if clientCertFile == "" || clientKeyFile == "" {
			return fmt.Errorf("both client certificate and key files are required for mutual authentication")
		}
		if _, err := tls.LoadX509KeyPair(clientCertFile, clientKeyFile); err != nil {
			return fmt.Errorf("failed to load client certificate pair (%s, %s): %w",
				clientCertFile, clientKeyFile, err)
		}
	}
	return nil
}
