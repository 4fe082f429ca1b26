// Package dsn parses ODBC connection strings and resolves DSN names
// against .odbc.ini files: a semicolon-delimited Key=Value;... grammar
// scanned by hand with strings/bufio/os.
package dsn

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Params are the connection attributes recognized out of a connection
// string or DSN section.
type Params struct {
	Driver                 string
	Server                 string
	Port                   string
	Database               string
	UID                    string
	PWD                    string
	TrustServerCertificate bool
}

// ParseConnectionString parses a semicolon-separated Key=Value;... string.
// Keys are case-insensitive and trimmed; unknown keys are ignored.
func ParseConnectionString(s string) (Params, error) {
	var p Params
	for _, pair := range splitPairs(s) {
		key, val, ok := splitKV(pair)
		if !ok {
			continue
		}
		applyKey(&p, key, val)
	}
	return p, nil
}

// splitPairs splits on ';' but does not currently need to skip embedded
// quoted separators — none of the recognized keys' values need to
// contain ';'.
func splitPairs(s string) []string {
	raw := strings.Split(s, ";")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) != "" {
			out = append(out, r)
		}
	}
	return out
}

func splitKV(pair string) (key, val string, ok bool) {
	i := strings.IndexByte(pair, '=')
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(pair[:i])
	val = strings.TrimSpace(pair[i+1:])
	return key, val, key != ""
}

func applyKey(p *Params, key, val string) {
	switch strings.ToUpper(key) {
	case "DRIVER":
		p.Driver = val
	case "SERVER":
		host, port := splitServer(val)
		p.Server, p.Port = host, port
	case "DATABASE", "INITIAL CATALOG":
		p.Database = val
	case "UID", "USER ID":
		p.UID = val
	case "PWD", "PASSWORD":
		p.PWD = val
	case "TRUSTSERVERCERTIFICATE":
		p.TrustServerCertificate = parseBool(val)
	}
}

func splitServer(val string) (host, port string) {
	if i := strings.IndexByte(val, ','); i >= 0 {
		return val[:i], val[i+1:]
	}
	return val, ""
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true
	default:
		return false
	}
}

// LookupDSN reads $HOME/.odbc.ini then /etc/odbc.ini (first match wins),
// extracts the [dsnName] section, and parses its key/value lines as a
// connection string.
func LookupDSN(dsnName string) (Params, error) {
	paths := candidatePaths()
	for _, path := range paths {
		section, err := readINISection(path, dsnName)
		if err != nil {
			continue
		}
		if section != "" {
			return ParseConnectionString(section)
		}
	}
	return Params{}, fmt.Errorf("dsn: no section [%s] found in %s", dsnName, strings.Join(paths, " or "))
}

func candidatePaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".odbc.ini"))
	}
	paths = append(paths, "/etc/odbc.ini")
	return paths
}

// readINISection scans path for a "[name]" header (case-insensitive) and
// returns its body re-joined as a ";"-separated Key=Value string so
// ParseConnectionString can reuse its own key-name logic unchanged.
func readINISection(path, name string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var inSection bool
	var pairs []string
	sc := bufio.NewScanner(f)
	target := "[" + strings.ToLower(name) + "]"
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inSection = strings.ToLower(line) == target
			continue
		}
		if !inSection {
			continue
		}
		if strings.Contains(line, "=") {
			pairs = append(pairs, line)
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(pairs) == 0 {
		return "", nil
	}
	return strings.Join(pairs, ";"), nil
}

// Merge overlays override values (non-empty fields win) onto base, so
// explicit UID/PWD arguments to a DSN connect take precedence over the
// values stored in the DSN file.
func Merge(base, override Params) Params {
	out := base
	if override.Server != "" {
		out.Server = override.Server
		out.Port = override.Port
	}
	if override.Database != "" {
		out.Database = override.Database
	}
	if override.UID != "" {
		out.UID = override.UID
	}
	if override.PWD != "" {
		out.PWD = override.PWD
	}
	if override.Driver != "" {
		out.Driver = override.Driver
	}
	return out
}

// PortNumber parses the numeric port, defaulting to the TDS/SQL Server
// default when absent or malformed.
func PortNumber(p Params) string {
	if p.Port == "" {
		return "1433"
	}
	if _, err := strconv.Atoi(p.Port); err != nil {
		return "1433"
	}
	return p.Port
}
