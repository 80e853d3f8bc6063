// Package config provides the configuration for flight searches: the route
// catalog and leg source, the request throttle, the leg cache and the
// search defaults. Values come from defaults, an optional YAML file and
// command line flags, in increasing order of precedence.
package config
