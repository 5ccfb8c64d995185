// Package config loads and validates the polisbot YAML configuration.
//
// Configuration files support ${ENV_VAR} expansion, so secrets like the
// Matrix access token and generation API keys can stay out of the file:
//
//	matrix:
//	  homeserver: https://matrix.example.org
//	  user_id: "@polisbot:example.org"
//	  access_token: ${POLISBOT_MATRIX_TOKEN}
//	narrative:
//	  provider: gemini
//	  cache_ttl: 10m
//	  gemini:
//	    api_key: ${GEMINI_API_KEY}
//
// Duration fields are written as Go duration strings ("30s", "10m").
package config
