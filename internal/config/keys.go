package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ListKeys returns the user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"picker.batch_size",
		"picker.max_batches",
		"picker.height",
		"picker.placeholder",
		"picker.scroll_tolerance",
		"graph.source",
		"graph.nodes",
		"graph.links",
		"graph.seed",
		"graph.file",
		"graph.command",
		"status.save_delay_ms",
		"journal.enabled",
		"journal.path",
		"journal.recent_limit",
		"log.level",
		"log.file",
	}
}

// Get returns the value of a section.key as a string.
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "picker":
		switch field {
		case "batch_size":
			return strconv.Itoa(c.Picker.BatchSize), nil
		case "max_batches":
			return strconv.Itoa(c.Picker.MaxBatches), nil
		case "height":
			return strconv.Itoa(c.Picker.Height), nil
		case "placeholder":
			return c.Picker.Placeholder, nil
		case "scroll_tolerance":
			return strconv.FormatFloat(c.Picker.ScrollTolerance, 'g', -1, 64), nil
		}
	case "graph":
		switch field {
		case "source":
			return c.Graph.Source, nil
		case "nodes":
			return strconv.Itoa(c.Graph.Nodes), nil
		case "links":
			return strconv.Itoa(c.Graph.Links), nil
		case "seed":
			return strconv.FormatUint(c.Graph.Seed, 10), nil
		case "file":
			return c.Graph.File, nil
		case "command":
			return c.Graph.Command, nil
		}
	case "status":
		if field == "save_delay_ms" {
			return strconv.Itoa(c.Status.SaveDelayMs), nil
		}
	case "journal":
		switch field {
		case "enabled":
			return strconv.FormatBool(c.Journal.Enabled), nil
		case "path":
			return c.Journal.Path, nil
		case "recent_limit":
			return strconv.Itoa(c.Journal.RecentLimit), nil
		}
	case "log":
		switch field {
		case "level":
			return c.Log.Level, nil
		case "file":
			return c.Log.File, nil
		}
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}

	return "", fmt.Errorf("unknown field: %s", key)
}

// Set parses value and assigns it to section.key. It does not validate
// cross-field constraints; call Validate afterwards.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "picker":
		switch field {
		case "batch_size":
			return setInt(&c.Picker.BatchSize, key, value)
		case "max_batches":
			return setInt(&c.Picker.MaxBatches, key, value)
		case "height":
			return setInt(&c.Picker.Height, key, value)
		case "placeholder":
			c.Picker.Placeholder = value
			return nil
		case "scroll_tolerance":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			c.Picker.ScrollTolerance = v
			return nil
		}
	case "graph":
		switch field {
		case "source":
			c.Graph.Source = value
			return nil
		case "nodes":
			return setInt(&c.Graph.Nodes, key, value)
		case "links":
			return setInt(&c.Graph.Links, key, value)
		case "seed":
			v, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			c.Graph.Seed = v
			return nil
		case "file":
			c.Graph.File = value
			return nil
		case "command":
			c.Graph.Command = value
			return nil
		}
	case "status":
		if field == "save_delay_ms" {
			return setInt(&c.Status.SaveDelayMs, key, value)
		}
	case "journal":
		switch field {
		case "enabled":
			v, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			c.Journal.Enabled = v
			return nil
		case "path":
			c.Journal.Path = value
			return nil
		case "recent_limit":
			return setInt(&c.Journal.RecentLimit, key, value)
		}
	case "log":
		switch field {
		case "level":
			if !isValidLogLevel(value) {
				return fmt.Errorf("invalid value for %s: %s", key, value)
			}
			c.Log.Level = value
			return nil
		case "file":
			c.Log.File = value
			return nil
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	return fmt.Errorf("unknown field: %s", key)
}

func splitKey(key string) (section, field string, err error) {
	section, field, ok := strings.Cut(key, ".")
	if !ok || section == "" || field == "" {
		return "", "", fmt.Errorf("invalid key format: %s (expected section.key)", key)
	}
	return section, field, nil
}

func setInt(dst *int, key, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = v
	return nil
}
