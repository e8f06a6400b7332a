/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic

TODO(jamie): move to more powerful cli lib https://github.com/spf13/cobra
*/

package flag

import (
	"flag"
	"os"
	"strings"
)

const (
	APIServer  = "api_server"
	DataLoader = "data_loader"
)

var (
	IsDevelopment bool
	ServiceName   string
	AppConfigPath string
	DataDir       string
	DeriveOnly    bool
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "'api_server' or 'data_loader'")
	flag.StringVar(&AppConfigPath, "app_config", "", "path to the YAML app config, empty to use built-in defaults")
	flag.StringVar(&DataDir, "data_dir", "./data", "directory containing users.json, posts.json, factchecks.json and relationships.json")
	flag.BoolVar(&DeriveOnly, "derive", false, "derive relationships.json from users.json and posts.json instead of importing")
	// Test binaries register their -test.* flags after package init runs, so
	// parsing here would reject them; let the testing framework parse instead.
	if strings.HasSuffix(os.Args[0], ".test") {
		return
	}
	flag.Parse()
}
