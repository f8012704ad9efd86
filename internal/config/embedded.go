package config

// Version is injected at build time via ldflags:
//
//	go build -ldflags "-X 'github.com/driftarr/driftarr/internal/config.Version=x.y.z'"
var Version = "dev"
