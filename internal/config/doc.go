// Package config provides configuration parsing for outlet projects.
//
// The configuration is stored in outlet.json at the project root.
// Every field can be overridden from the environment with an OUTLET_
// prefixed variable (OUTLET_ENTRY, OUTLET_STORAGE_BACKEND,
// OUTLET_INSPECTOR_PORT, ...).
//
// # Configuration File Structure
//
//	{
//	  "name": "shop",
//	  "routes": "routes.toml",
//	  "entry": "/",
//	  "history": true,
//	  "memory": true,
//	  "storage": {
//	    "backend": "sql",
//	    "driver": "sqlite",
//	    "dsn": "file:outlet.db",
//	    "dialect": "sqlite"
//	  },
//	  "inspector": {
//	    "host": "localhost",
//	    "port": 3000
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Inspector:", cfg.InspectorAddress())
package config
