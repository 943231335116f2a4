// Command arena is a CLI client for the dragon arena service.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	u "github.com/gofrs/uuid/v5"
	"github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	arenav1 "github.com/and161185/dragon-arena/api/arenav1"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	Identity    string    `json:"identity"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "dragon-arena")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dragon-arena")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok, identity string, exp time.Time) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokenFile{AccessToken: tok, Identity: identity, ExpiresAt: exp}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(tokenPath(), b, 0o600)
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (run 'arena token' first)")
	}
	return tf.AccessToken, nil
}

// ---- grpc dial ----

type bearerCreds struct {
	token  string
	secure bool
}

func (b bearerCreds) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}
func (b bearerCreds) RequireTransportSecurity() bool { return b.secure }

func loadTLS(caPath string, skipVerify bool) (credentials.TransportCredentials, error) {
	if skipVerify {
		return credentials.NewTLS(&tls.Config{InsecureSkipVerify: true}), nil
	}
	if caPath == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("bad CA cert")
	}
	return credentials.NewTLS(&tls.Config{RootCAs: pool}), nil
}

// requestIDUnary tags each call with a fresh request id unless one is already set.
func requestIDUnary() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if md, ok := metadata.FromOutgoingContext(ctx); !ok || len(md.Get("x-request-id")) == 0 {
			if id, err := u.NewV4(); err == nil {
				ctx = metadata.AppendToOutgoingContext(ctx, "x-request-id", id.String())
			}
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

type dialOpts struct {
	addr       string
	caPath     string
	skipVerify bool
	plaintext  bool
}

func dial(o dialOpts, bearer string) (*grpc.ClientConn, arenav1.ArenaClient, error) {
	var creds credentials.TransportCredentials
	if o.plaintext {
		creds = insecure.NewCredentials()
	} else {
		var err error
		creds, err = loadTLS(o.caPath, o.skipVerify)
		if err != nil {
			return nil, nil, err
		}
	}
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(requestIDUnary()),
	}
	if bearer != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(bearerCreds{token: bearer, secure: !o.plaintext}))
	}
	cc, err := grpc.NewClient(o.addr, opts...)
	if err != nil {
		return nil, nil, err
	}
	return cc, arenav1.NewArenaClient(cc), nil
}

// ---- utils ----

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Fprintln(os.Stdout, string(b))
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func usage() {
	fmt.Fprintf(os.Stderr, `arena CLI
Usage:
  arena -addr HOST:PORT [-cacert file | -insecure | -plaintext] <cmd> [args]

Commands:
  version
  token          -sub <identity> [-key K] [-ttl 24h]   (saves token; key defaults to $ARENA_JWT_KEY)
  create-account
  account
  mint           -owner <identity>                       (privileged)
  select-dragon  -id <dragon> | -clear
  select-cluster -id <cluster>
  level-up       -id <dragon>
  award-exp      -id <dragon> -amount <n>                (privileged)
  dragon         -id <dragon>
  create-cluster -id <cluster> -max-level <n>            (privileged)
  cluster        -id <cluster>
  start-battle
  commit         -battle <id> -actions 0,1,0             (stores salt locally)
  reveal         -battle <id> [-actions 0,1,0]
  battle         -battle <id>
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands and configures TLS/auth for RPC calls.
func main() {
	// global flags
	addr := flag.String("addr", "localhost:8443", "server addr")
	caPath := flag.String("cacert", "", "CA cert (PEM)")
	skipVerify := flag.Bool("insecure", false, "skip cert verify (dev)")
	plaintext := flag.Bool("plaintext", false, "connect without TLS (dev)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd, args := flag.Arg(0), flag.Args()[1:]

	switch cmd {
	case "version":
		fmt.Printf("arena %s (%s)\n", version, buildDate)
		return
	case "token":
		if err := cmdToken(args, time.Now()); err != nil {
			fail(err)
		}
		return
	}

	run, ok := commands[cmd]
	if !ok {
		usage()
	}

	token, err := loadToken()
	if err != nil {
		fail(err)
	}
	conn, cli, err := dial(dialOpts{addr: *addr, caPath: *caPath, skipVerify: *skipVerify, plaintext: *plaintext}, token)
	if err != nil {
		fail(err)
	}
	defer conn.Close()

	ctx, cancel := withTimeout()
	defer cancel()
	if err := run(ctx, cli, args); err != nil {
		_ = conn.Close()
		fail(err)
	}
}

// ---- helpers ----

func fail(err error) {
	if s, ok := status.FromError(err); ok {
		fmt.Fprintf(os.Stderr, "rpc error: code=%s msg=%s\n", s.Code(), s.Message())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
