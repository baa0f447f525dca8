package storage

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"rosterboard/internal/adapters/storage/cdn"
	"rosterboard/internal/adapters/storage/gdrive"
	"rosterboard/internal/adapters/storage/localfs"
	"rosterboard/internal/config"
)

func NewProvider(cfg config.Storage) (Provider, error) {
	switch cfg.Provider {
	case "", "cdn":
		if cfg.PublicBaseURL == "" {
			return nil, fmt.Errorf("cdn provider requires STORAGE_PUBLIC_BASE_URL")
		}
		return cdn.New(cfg.PublicBaseURL), nil

	case "localfs":
		if cfg.LocalRoot == "" || cfg.PublicBaseURL == "" {
			return nil, fmt.Errorf("localfs provider requires STORAGE_LOCAL_ROOT and STORAGE_PUBLIC_BASE_URL")
		}
		return localfs.New(cfg.LocalRoot, cfg.PublicBaseURL), nil

	case "gdrive":
		return newGDriveProvider(cfg)

	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

func newGDriveProvider(cfg config.Storage) (Provider, error) {
	ctx := context.Background()

	if cfg.GDriveClientID == "" || cfg.GDriveClientSecret == "" || cfg.GDriveRefreshToken == "" {
		return nil, fmt.Errorf("gdrive provider requires client id, client secret and refresh token")
	}

	conf := &oauth2.Config{
		ClientID:     cfg.GDriveClientID,
		ClientSecret: cfg.GDriveClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveReadonlyScope},
	}

	tok := &oauth2.Token{RefreshToken: cfg.GDriveRefreshToken}
	httpClient := conf.Client(ctx, tok)

	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return gdrive.NewClient(srv), nil
}
