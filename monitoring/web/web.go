// Package web carries the static pages of the monitoring dashboard.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"
)

//go:embed dist/*
var staticAssets embed.FS

// GetAssets returns the dashboard assets. They are embedded in the binary.
// With WASHSIM_MONITOR_DEV set, they are served from the source tree instead
// so that page edits show up on reload.
func GetAssets() http.FileSystem {
	if isDevelopmentMode() {
		return http.Dir(sourceTreeAssetDir())
	}

	dist, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(dist)
}

func sourceTreeAssetDir() string {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot locate the web package source")
	}

	dir := path.Join(path.Dir(thisFile), "dist")
	fmt.Printf("Monitoring tool development mode, serving assets from %s\n",
		dir)

	return dir
}

func isDevelopmentMode() bool {
	value, set := os.LookupEnv("WASHSIM_MONITOR_DEV")
	if !set {
		return false
	}

	return strings.ToLower(value) == "true" || value == "1"
}
