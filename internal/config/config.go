package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ParcelSource is one parcel dataset to clip, labeled for layer naming.
type ParcelSource struct {
	Label string
	Path  string
}

type Config struct {
	ConfigPath      string
	TownshipPath    string
	SectionPath     string
	Parcels         []ParcelSource
	PLSSIDField     string
	SectionIDField  string
	OutputName      string
	TemplateProject string
	ProjectDest     string
	QGISBin         string
	Launch          bool
	LogLevel        string
	LogJSON         bool
}

func FromEnv() Config {
	home, _ := os.UserHomeDir()
	base := getenv("AREAMAP_GIS_DIR", filepath.Join(home, "Dropbox", "GIS", "COLORADO"))

	return Config{
		ConfigPath:      getenv("AREAMAP_CONFIG", "config.map"),
		TownshipPath:    getenv("AREAMAP_TOWNSHIPS", filepath.Join(base, "ESPG26913_BLM_Colorado_Townships.gpkg")),
		SectionPath:     getenv("AREAMAP_SECTIONS", filepath.Join(base, "ESPG26913_BLM_Colorado_Sections.gpkg")),
		Parcels:         parseParcels(getenv("AREAMAP_PARCELS", defaultParcels(base))),
		PLSSIDField:     getenv("AREAMAP_PLSSID_FIELD", "PLSSID"),
		SectionIDField:  getenv("AREAMAP_FRSTDIVID_FIELD", "FRSTDIVID"),
		OutputName:      getenv("AREAMAP_OUTPUT", ""),
		TemplateProject: getenv("AREAMAP_TEMPLATE", filepath.Join(home, "Dropbox", "GIS", "AREA_MAP_TEMPLATE.qgz")),
		ProjectDest:     getenv("AREAMAP_PROJECT", "map.qgz"),
		QGISBin:         getenv("AREAMAP_QGIS", "qgis"),
		Launch:          getbool("AREAMAP_LAUNCH", true),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogJSON:         getbool("LOG_JSON", false),
	}
}

func defaultParcels(base string) string {
	return "Larimer=" + filepath.Join(base, "ESPG26913_Larimer_Parcels.gpkg") +
		",Weld=" + filepath.Join(base, "ESPG26913_Weld_Parcels.gpkg")
}

// parse "Larimer=/path/a.gpkg,Weld=/path/b.gpkg" into labeled sources
func parseParcels(s string) []ParcelSource {
	var out []ParcelSource
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		label := strings.TrimSpace(kv[0])
		path := strings.TrimSpace(kv[1])
		if label == "" || path == "" {
			continue
		}
		out = append(out, ParcelSource{Label: label, Path: path})
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}
