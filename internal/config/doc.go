// Package config provides configuration loading for the Fun Day site.
//
// Configuration is resolved in layers: built-in defaults, then an optional
// funday.json file, then FUNDAY_* environment variables. Command-line flags
// are applied last by the caller.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": ":8080",
//	    "readHeaderTimeout": "5s",
//	    "shutdownTimeout": "10s"
//	  },
//	  "log": { "level": "info", "format": "auto" },
//	  "submit": { "delay": "1500ms", "formTTL": "30m" },
//	  "content": { "path": "event.yaml" },
//	  "static": { "cacheControl": "production" },
//	  "live": { "enabled": true, "readTimeout": "60s", "heartbeatInterval": "30s" },
//	  "telemetry": { "metrics": true, "tracing": false }
//	}
//
// # Environment
//
//	FUNDAY_ADDR, FUNDAY_LOG_LEVEL, FUNDAY_LOG_FORMAT, FUNDAY_SUBMIT_DELAY,
//	FUNDAY_FORM_TTL, FUNDAY_CONTENT, FUNDAY_STATIC_CACHE, FUNDAY_LIVE,
//	FUNDAY_METRICS, FUNDAY_TRACING, FUNDAY_DEV
//
// # Usage
//
//	cfg, err := config.Resolve("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
