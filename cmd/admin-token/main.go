package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2/google"

	"github.com/ummah-scheduler/scheduler/src/api/config"
	"github.com/ummah-scheduler/scheduler/src/meetings"
)

var (
	portFlag    = flag.Int("port", 5050, "Loopback port for the OAuth redirect")
	outFlag     = flag.String("out", "", "Write the credential JSON to this file instead of stdout")
	timeoutFlag = flag.Duration("timeout", 5*time.Minute, "How long to wait for consent")
)

type result struct {
	code string
	err  error
}

// callbackHandler reports the first redirect carrying state on done. Later
// redirects, such as a browser reload, are answered without blocking.
func callbackHandler(state string, done chan<- result) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		res := result{code: q.Get("code")}
		if e := q.Get("error"); e != "" {
			res = result{err: errors.New("consent denied: " + e)}
		}
		select {
		case done <- res:
		default:
		}
		fmt.Fprintln(w, "Authentication complete. You may close this tab.")
	})
}

func main() {
	log.SetFlags(0)
	flag.Parse()
	cfg := config.Load()

	redirect := fmt.Sprintf("http://localhost:%d/", *portFlag)
	conf, err := meetings.OAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCredentialsFile, redirect, meetings.CalendarScopes)
	if err != nil {
		log.Fatal(err)
	}
	identity := meetings.NewGoogleIdentity(conf)
	state := uuid.NewString()

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", *portFlag))
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	done := make(chan result, 1)
	srv := &http.Server{Handler: callbackHandler(state, done), ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()

	fmt.Fprintf(os.Stderr, "Open this URL and sign in with the organizer account:\n\n%s\n\n",
		identity.AuthCodeURL(redirect, meetings.CalendarScopes, state))

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()
	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = errors.New("timed out waiting for consent")
	}
	_ = srv.Shutdown(context.Background())
	if res.err != nil {
		log.Fatal(res.err)
	}

	tok, email, err := identity.Exchange(ctx, redirect, meetings.CalendarScopes, res.code)
	if err != nil {
		log.Fatal(err)
	}
	if tok.RefreshToken == "" {
		log.Fatal("no refresh_token returned; revoke the app's access and run again")
	}
	cred := meetings.CredentialFromToken(email, tok, meetings.CalendarScopes)
	cred.TokenURI = google.Endpoint.TokenURL

	buf, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if *outFlag == "" {
		fmt.Println(string(buf))
		return
	}
	if err := os.WriteFile(*outFlag, append(buf, '\n'), 0o600); err != nil {
		log.Fatal(err)
	}
	log.Printf("credential for %s written to %s; set its contents as ADMIN_TOKEN_JSON", email, *outFlag)
}
