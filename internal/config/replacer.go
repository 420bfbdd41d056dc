package config

import "strings"

// envKeyReplacer maps nested viper keys like "mongo.uri" to environment
// variables like REALESTATE_MONGO_URI.
func envKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}
