package config

import "io/fs"

func readNames(cfg Config) ([]string, error) {
	entries, err := fs.ReadDir(cfg.Migrations(), ".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}
