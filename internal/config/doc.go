// Package config holds the crawl configuration and its loading from the
// optional .bfscrawl YAML file.
package config
