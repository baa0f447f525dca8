// Command gdrive-auth mints the refresh token the gdrive storage provider
// needs. Run it once, follow the printed URL, and put the token in
// ROSTERBOARD_STORAGE_GDRIVE_REFRESH_TOKEN.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
)

const authTimeout = 3 * time.Minute

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	clientID := os.Getenv("ROSTERBOARD_STORAGE_GDRIVE_CLIENT_ID")
	clientSecret := os.Getenv("ROSTERBOARD_STORAGE_GDRIVE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return errors.New("set ROSTERBOARD_STORAGE_GDRIVE_CLIENT_ID and ROSTERBOARD_STORAGE_GDRIVE_CLIENT_SECRET first")
	}

	// Callback listener on a free local port; Google redirects here with
	// the authorization code.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	defer ln.Close()

	redirectURL := fmt.Sprintf("http://%s/callback", ln.Addr())

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveReadonlyScope},
		RedirectURL:  redirectURL,
	}

	state := randomState()
	code, err := waitForCode(ln, state, func() {
		// Offline access plus prompt=consent forces a refresh token even
		// for an already-authorized app.
		authURL := conf.AuthCodeURL(
			state,
			oauth2.AccessTypeOffline,
			oauth2.SetAuthURLParam("prompt", "consent"),
		)
		fmt.Println("\nOpen this URL in your browser:")
		fmt.Println()
		fmt.Println(authURL)
		fmt.Println("\nWaiting for authorization on:", redirectURL)
	})
	if err != nil {
		return err
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("code exchange failed: %w", err)
	}

	if strings.TrimSpace(tok.RefreshToken) == "" {
		fmt.Println("\nNo refresh_token returned.")
		fmt.Println("Revoke the app's prior access and run this command again:")
		fmt.Println("https://myaccount.google.com/permissions")
		return nil
	}

	fmt.Println("\nREFRESH TOKEN:")
	fmt.Println()
	fmt.Println(tok.RefreshToken)
	return nil
}

// waitForCode serves the OAuth callback until a code arrives, the flow
// errors, or the timeout expires. announce runs once the server is up.
func waitForCode(ln net.Listener, state string, announce func()) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "invalid state", http.StatusBadRequest)
			errCh <- errors.New("oauth callback returned an unexpected state")
		case q.Get("error") != "":
			http.Error(w, "auth error: "+q.Get("error"), http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization refused: %s", q.Get("error"))
		case q.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			errCh <- errors.New("oauth callback carried no code")
		default:
			fmt.Fprintln(w, "OK. You can close this window and return to the terminal.")
			codeCh <- q.Get("code")
		}
	})

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	defer srv.Close()
	go func() { _ = srv.Serve(ln) }()

	announce()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(authTimeout):
		return "", errors.New("timed out waiting for authorization")
	}
}

func randomState() string {
	b := make([]byte, 18)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
