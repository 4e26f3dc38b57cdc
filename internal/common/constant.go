// Package common contains shared constants and sentinel errors used across
// the photoalbum server and its admin tooling.
package common

import "time"

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// DefaultTokenValidity is how long a freshly minted access token stays valid.
const DefaultTokenValidity = time.Hour

// DefaultReconnectInterval is the fixed pause between store connection attempts.
const DefaultReconnectInterval = 5 * time.Second
