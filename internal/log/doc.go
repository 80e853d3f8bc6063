// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// The SecureHandler masks:
//   - HTTP headers sent to the flight endpoint (Authorization, Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (bearer tokens, JWTs, keys)
//   - Signing query parameters (sig, signature, token, key) of endpoint URLs,
//     including URLs quoted inside error messages
//
// Even in verbose mode, sensitive values are masked so that logs of a search
// can be shared without leaking endpoint credentials.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("fetching legs",
//	    "url", "https://api.example.com/BUD/LTN/2025-03-10?sig=abc", // sig=***REDACTED***
//	    "authorization", "Bearer xyz",                                // ***REDACTED***
//	)
//
//	slog.SetDefault(logger)
package log
