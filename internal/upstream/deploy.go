package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pulseboard/pulseboard/internal/config"
)

// Application is one deployed app, projected down to what the dashboard shows.
type Application struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	FQDN   string `json:"fqdn"`
}

// Deployments is the reshaped application listing.
type Deployments struct {
	TotalApps    int           `json:"total_apps"`
	Applications []Application `json:"applications"`
}

// Deploy talks to the Coolify-style deployment platform API.
type Deploy struct {
	cfg    config.Upstream
	client *http.Client
}

func NewDeploy(cfg config.Upstream) *Deploy {
	return &Deploy{
		cfg:    cfg,
		client: newClient("Authorization", "Bearer ", cfg.Key),
	}
}

// FetchApplications lists deployed applications and reshapes them into
// {total_apps, applications}, keeping only name/status/fqdn per app.
func (d *Deploy) FetchApplications(ctx context.Context) (Deployments, error) {
	if d.cfg.Key() == "" {
		return Deployments{}, fmt.Errorf("%s %w", d.cfg.KeyEnv, ErrNotConfigured)
	}
	if d.cfg.BaseURL == "" {
		return Deployments{}, fmt.Errorf("COOLIFY_BASE_URL %w", ErrNotConfigured)
	}

	var apps []Application
	if err := getJSON(ctx, d.client, d.cfg.BaseURL+"/api/v1/applications", nil, &apps); err != nil {
		return Deployments{}, fmt.Errorf("deploy applications: %w", err)
	}
	if apps == nil {
		apps = []Application{}
	}
	return Deployments{TotalApps: len(apps), Applications: apps}, nil
}
