package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/modserve-project/modserve-go/pkg/logger"
)

// DirectiveParser translates one configuration node into a resolved
// directive value on the enclosing site. Modules register one parser per
// directive name they own; the loader dispatches by name.
type DirectiveParser func(node *Node, site *SiteConfig) error

// ParserLookup resolves the parser for a directive name. It is supplied
// by the host registry so the loader stays independent of the module set.
type ParserLookup func(name string) (DirectiveParser, bool)

// LoadSites loads all site configuration files in the specified directory
// and resolves their directives through the supplied parser lookup.
func LoadSites(configDir string, lookup ParserLookup) (*Sites, error) {
	sites := newSites()

	scanRecursive := os.Getenv("MODSERVE_CONFIG_SCAN_RECURSIVE") == "true"

	err := filepath.Walk(configDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		// Skip subdirectories if not scanning recursively
		if info.IsDir() && info.Name() != filepath.Base(configDir) && !scanRecursive {
			return filepath.SkipDir
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), "-site.conf") {
			return nil
		}

		logger.Infof("loading site config file: %s", path)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		nodes, err := ParseTree(path, substituteEnvVars(string(data)))
		if err != nil {
			return err
		}
		return resolveSites(sites, nodes, lookup)
	})
	if err != nil {
		return nil, err
	}
	return sites, nil
}

// resolveSites merges the top-level nodes of one file into the site set.
// Only 'site' blocks may appear at the top level.
func resolveSites(sites *Sites, nodes []*Node, lookup ParserLookup) error {
	for _, node := range nodes {
		if node.Name != "site" {
			return NewError(node, ErrUnknownDirective, "directives must appear within a site block")
		}
		if len(node.Args) != 1 || node.Args[0].Kind != KindString {
			return NewError(node, ErrInvalidArgument, "site block expects one host pattern")
		}

		site := sites.site(strings.ToLower(node.Args[0].Str))
		for _, child := range node.Children {
			parser, ok := lookup(child.Name)
			if !ok {
				return NewError(child, ErrUnknownDirective, "no module registers this directive")
			}
			if err := parser(child, site); err != nil {
				return err
			}
		}
	}
	return nil
}

// substituteEnvVars replaces ${env.VAR} and ${env.VAR:-default} with environment variable values
func substituteEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{env\.([A-Z0-9_]+)(:-([^}]+))?\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		groups := re.FindStringSubmatch(match)
		envVar := groups[1]
		defaultValue := groups[3]
		if value, exists := os.LookupEnv(envVar); exists {
			return value
		}
		return defaultValue
	})
}
