/*
Copyright 2026 The niocctl Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package vclib is the govmomi-backed implementation of the nioc.Platform
// interface: session handling and distributed switch access against a
// vCenter or ESX endpoint.
package vclib

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/vim25/soap"
	"k8s.io/klog/v2"
)

const (
	envURL        = "NIOCCTL_URL"
	envUsername   = "NIOCCTL_USERNAME"
	envPassword   = "NIOCCTL_PASSWORD"
	envInsecure   = "NIOCCTL_INSECURE"
	envDatacenter = "NIOCCTL_DATACENTER"
)

// Config carries the connection parameters for one vCenter session.
type Config struct {
	// URL of the vCenter or ESX endpoint, in any form soap.ParseURL
	// accepts ("host", "host:port", full https URL).
	URL string
	// Username and Password override any credentials embedded in URL.
	Username string
	Password string
	// Insecure skips verification of the server certificate.
	Insecure bool
	// Datacenter is the inventory path of the datacenter to search for
	// switches in. Empty means the default datacenter, which fails when the
	// inventory has more than one.
	Datacenter string
}

// ConfigFromEnv returns a Config populated from the NIOCCTL_* environment
// variables.
func ConfigFromEnv() Config {
	return Config{
		URL:        os.Getenv(envURL),
		Username:   os.Getenv(envUsername),
		Password:   os.Getenv(envPassword),
		Insecure:   envToBool(os.Getenv(envInsecure)),
		Datacenter: os.Getenv(envDatacenter),
	}
}

func envToBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true":
		return true
	}
	return false
}

// VSphereConnection is an explicit, authenticated session handle. It is the
// only state shared between calls; nothing is process-global.
type VSphereConnection struct {
	Client     *govmomi.Client
	Datacenter string
}

// Connect logs in to the endpoint described by cfg and returns a live
// session handle.
func Connect(ctx context.Context, cfg Config) (*VSphereConnection, error) {
	if cfg.URL == "" {
		return nil, errors.Errorf("no vCenter URL set (use -u or %s)", envURL)
	}

	u, err := soap.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing URL %q", cfg.URL)
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}

	client, err := govmomi.NewClient(ctx, u, cfg.Insecure)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", u.Host)
	}
	klog.V(2).Infof("connected to %s, API version %s", u.Host, client.ServiceContent.About.ApiVersion)

	return &VSphereConnection{Client: client, Datacenter: cfg.Datacenter}, nil
}

// Logout ends the session. Failures are logged, not returned; there is
// nothing a caller can do about a failed logout.
func (vc *VSphereConnection) Logout(ctx context.Context) {
	if err := vc.Client.Logout(ctx); err != nil {
		klog.V(2).Infof("logout failed: %v", err)
	}
}
