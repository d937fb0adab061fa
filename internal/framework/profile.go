// Package framework supplies client-prefix conventions for supported
// frontend frameworks. The profile table is immutable and constructed once;
// callers receive profiles by value and pass them explicitly into the
// scanner and analyzers.
package framework

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Profile describes how one framework exposes environment variables to
// browser-delivered code.
type Profile struct {
	Name string
	// ClientPrefix is the literal prefix a variable name must carry to be
	// bundled into client code. Empty means the framework has no
	// client/server split.
	ClientPrefix string
	// Accessors are the expression roots the scanner should treat as the
	// environment object, e.g. "process.env" or "import.meta.env".
	Accessors []string
	// AutoIgnore lists runtime variables the framework injects itself;
	// they are never reported as unused.
	AutoIgnore []string
}

var profiles = map[string]Profile{
	"next": {
		Name:         "next",
		ClientPrefix: "NEXT_PUBLIC_",
		Accessors:    []string{"process.env"},
		AutoIgnore:   []string{"NODE_ENV", "NEXT_RUNTIME", "VERCEL", "VERCEL_ENV", "VERCEL_URL"},
	},
	"vite": {
		Name:         "vite",
		ClientPrefix: "VITE_",
		Accessors:    []string{"import.meta.env", "process.env"},
		AutoIgnore:   []string{"NODE_ENV", "MODE", "BASE_URL", "PROD", "DEV", "SSR"},
	},
	"create-react-app": {
		Name:         "create-react-app",
		ClientPrefix: "REACT_APP_",
		Accessors:    []string{"process.env"},
		AutoIgnore:   []string{"NODE_ENV", "PUBLIC_URL"},
	},
	"nuxt": {
		Name:         "nuxt",
		ClientPrefix: "NUXT_PUBLIC_",
		Accessors:    []string{"process.env", "import.meta.env"},
		AutoIgnore:   []string{"NODE_ENV", "NITRO_PORT", "NITRO_HOST"},
	},
	"gatsby": {
		Name:         "gatsby",
		ClientPrefix: "GATSBY_",
		Accessors:    []string{"process.env"},
		AutoIgnore:   []string{"NODE_ENV"},
	},
	"sveltekit": {
		Name:         "sveltekit",
		ClientPrefix: "PUBLIC_",
		Accessors:    []string{"process.env", "import.meta.env"},
		AutoIgnore:   []string{"NODE_ENV"},
	},
	"astro": {
		Name:         "astro",
		ClientPrefix: "PUBLIC_",
		Accessors:    []string{"import.meta.env", "process.env"},
		AutoIgnore:   []string{"NODE_ENV", "MODE", "BASE_URL", "PROD", "DEV", "SSR", "SITE"},
	},
}

// generic is the profile used when no framework is detected: plain
// process.env / import.meta.env access, no client prefix.
var generic = Profile{
	Name:       "",
	Accessors:  []string{"process.env", "import.meta.env"},
	AutoIgnore: []string{"NODE_ENV", "PATH", "HOME", "PWD", "SHELL", "TERM", "CI", "TZ", "LANG", "HOSTNAME", "USER"},
}

// Lookup returns the profile for a framework name, falling back to the
// generic profile for unknown or empty names.
func Lookup(name string) Profile {
	if p, ok := profiles[strings.ToLower(name)]; ok {
		return p
	}
	return generic
}

// IsClientAccessible reports whether a variable name would be exposed to
// client code under this profile's naming convention. Profiles without a
// client prefix expose nothing.
func (p Profile) IsClientAccessible(name string) bool {
	return p.ClientPrefix != "" && strings.HasPrefix(name, p.ClientPrefix)
}

// ShouldAutoIgnore reports whether the framework itself provides this
// variable at runtime.
func (p Profile) ShouldAutoIgnore(name string) bool {
	for _, v := range p.AutoIgnore {
		if v == name {
			return true
		}
	}
	// Common runtime variables are never interesting as unused, whatever
	// the framework.
	for _, v := range generic.AutoIgnore {
		if v == name {
			return true
		}
	}
	return false
}

// detectionOrder keeps package.json detection deterministic when several
// framework packages are present; more specific frameworks win.
var detectionOrder = []struct {
	pkg  string
	name string
}{
	{"next", "next"},
	{"nuxt", "nuxt"},
	{"gatsby", "gatsby"},
	{"@sveltejs/kit", "sveltekit"},
	{"astro", "astro"},
	{"react-scripts", "create-react-app"},
	{"vite", "vite"},
}

// Detect inspects package.json under root and returns the matching profile.
// Errors reading or decoding the manifest fall back to the generic profile.
func Detect(root string) Profile {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return generic
	}
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return generic
	}
	has := func(pkg string) bool {
		_, ok := manifest.Dependencies[pkg]
		if !ok {
			_, ok = manifest.DevDependencies[pkg]
		}
		return ok
	}
	for _, d := range detectionOrder {
		if has(d.pkg) {
			return profiles[d.name]
		}
	}
	return generic
}
