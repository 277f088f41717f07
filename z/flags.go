package z

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SuperFlagHelp makes it really easy to generate `--help` style output for a SuperFlag. For
// example:
//
//	const flagDefaults = `align=8; block-number=20;`
//
//	var help string = z.NewSuperFlagHelp(flagDefaults).
//		Flag("align", "Block granularity in bytes.").
//		Flag("block-number", "Blocks refilled per size class.").
//		Flag("threshold", "Not present in defaults, but still included.").
//		String()
//
// All flags are sorted alphabetically for consistent output. Flags with default values are
// placed at the top, and everything else goes under.
type SuperFlagHelp struct {
	defaults *SuperFlag
	flags    map[string]string
}

func NewSuperFlagHelp(defaults string) *SuperFlagHelp {
	sf, err := NewSuperFlag(defaults)
	if err != nil {
		panic(err)
	}
	return &SuperFlagHelp{
		defaults: sf,
		flags:    make(map[string]string),
	}
}

func (h *SuperFlagHelp) Flag(name, description string) *SuperFlagHelp {
	h.flags[name] = description
	return h
}

func (h *SuperFlagHelp) String() string {
	defaultLines := make([]string, 0)
	otherLines := make([]string, 0)
	for name, help := range h.flags {
		val, found := h.defaults.m[name]
		line := fmt.Sprintf("%s=%s; %s\n", name, val, help)
		if found {
			defaultLines = append(defaultLines, line)
		} else {
			otherLines = append(otherLines, line)
		}
	}
	sort.Strings(defaultLines)
	sort.Strings(otherLines)
	return strings.Join(defaultLines, "") + strings.Join(otherLines, "")
}

func parseFlag(flag string) (map[string]string, error) {
	kvm := make(map[string]string)
	for _, kv := range strings.Split(flag, ";") {
		if strings.TrimSpace(kv) == "" {
			continue
		}
		splits := strings.SplitN(kv, "=", 2)
		if len(splits) != 2 {
			return nil, errors.Errorf("missing '=' in option %q of %q", strings.TrimSpace(kv), flag)
		}
		k := strings.TrimSpace(splits[0])
		k = strings.ToLower(k)
		k = strings.ReplaceAll(k, "_", "-")
		kvm[k] = strings.TrimSpace(splits[1])
	}
	return kvm, nil
}

// SuperFlag holds options written as `key=value; key=value`. Keys are case insensitive and
// underscores are treated as dashes.
type SuperFlag struct {
	m map[string]string
}

func NewSuperFlag(flag string) (*SuperFlag, error) {
	m, err := parseFlag(flag)
	if err != nil {
		return nil, err
	}
	return &SuperFlag{m: m}, nil
}

func (sf *SuperFlag) String() string {
	if sf == nil {
		return ""
	}
	var kvs []string
	for k, v := range sf.m {
		kvs = append(kvs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(kvs)
	return strings.Join(kvs, "; ")
}

// MergeAndCheckDefault fills in every option of flag that sf does not set. Options present in
// sf but unknown to flag are rejected.
func (sf *SuperFlag) MergeAndCheckDefault(flag string) (*SuperFlag, error) {
	src, err := parseFlag(flag)
	if err != nil {
		return nil, err
	}
	if sf == nil {
		return &SuperFlag{m: src}, nil
	}
	var unknown []string
	for k := range sf.m {
		if _, ok := src[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) != 0 {
		sort.Strings(unknown)
		return nil, errors.Errorf("found invalid options %v in %s. Valid options: %v",
			unknown, sf, flag)
	}
	for k, v := range src {
		if _, ok := sf.m[k]; !ok {
			sf.m[k] = v
		}
	}
	return sf, nil
}

func (sf *SuperFlag) Has(opt string) bool {
	val := sf.GetString(opt)
	return val != ""
}

func (sf *SuperFlag) GetBool(opt string) (bool, error) {
	val := sf.GetString(opt)
	if val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, errors.Wrapf(err,
			"Unable to parse %s as bool for key: %s. Options: %s", val, opt, sf)
	}
	return b, nil
}

func (sf *SuperFlag) GetUint64(opt string) (uint64, error) {
	val := sf.GetString(opt)
	if val == "" {
		return 0, nil
	}
	u, err := strconv.ParseUint(val, 0, 64)
	if err != nil {
		return 0, errors.Wrapf(err,
			"Unable to parse %s as uint64 for key: %s. Options: %s", val, opt, sf)
	}
	return u, nil
}

func (sf *SuperFlag) GetString(opt string) string {
	if sf == nil {
		return ""
	}
	return sf.m[opt]
}
