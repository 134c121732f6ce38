// Package gpkg reads and writes vector layers in GeoPackage files.
//
// A GeoPackage is a SQLite database with well-known metadata tables and
// geometry stored as a small binary header followed by WKB. Only what
// the pipeline needs is implemented: reading one feature layer into a
// FeatureSet and writing a set of FeatureSets as named layers.
package gpkg

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/jmcrawford/areamap/internal/model"
)

const (
	applicationID = 0x47504B47 // "GPKG"
	userVersion   = 10300      // GeoPackage 1.3
)

// ReadLayer reads one feature layer from the GeoPackage at path. An
// empty layer name selects the first feature table listed in
// gpkg_contents.
func ReadLayer(path, layer string) (model.FeatureSet, error) {
	if _, err := os.Stat(path); err != nil {
		return model.FeatureSet{}, fmt.Errorf("open geopackage: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return model.FeatureSet{}, fmt.Errorf("open geopackage %s: %w", path, err)
	}
	defer db.Close()

	table := layer
	if table == "" {
		err := db.QueryRow(
			`SELECT table_name FROM gpkg_contents WHERE data_type = 'features' ORDER BY table_name LIMIT 1`,
		).Scan(&table)
		if errors.Is(err, sql.ErrNoRows) {
			return model.FeatureSet{}, fmt.Errorf("%s: no feature layers", path)
		}
		if err != nil {
			return model.FeatureSet{}, fmt.Errorf("read gpkg_contents: %w", err)
		}
	}

	var geomCol string
	var srid int
	err = db.QueryRow(
		`SELECT column_name, srs_id FROM gpkg_geometry_columns WHERE table_name = ?`, table,
	).Scan(&geomCol, &srid)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FeatureSet{}, fmt.Errorf("%s: layer %q not found", path, table)
	}
	if err != nil {
		return model.FeatureSet{}, fmt.Errorf("read gpkg_geometry_columns: %w", err)
	}

	fields, err := tableFields(db, table, geomCol)
	if err != nil {
		return model.FeatureSet{}, err
	}

	fs := model.FeatureSet{Name: table, SRID: srid, Fields: fields}

	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, quoteIdent(geomCol))
	for _, f := range fields {
		cols = append(cols, quoteIdent(f.Name))
	}
	rows, err := db.Query(fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(cols, ", "), quoteIdent(table)))
	if err != nil {
		return model.FeatureSet{}, fmt.Errorf("read layer %q: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var blob []byte
		attrs := make([]any, len(fields))
		dest := make([]any, 0, len(fields)+1)
		dest = append(dest, &blob)
		for i := range attrs {
			dest = append(dest, &attrs[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return model.FeatureSet{}, fmt.Errorf("scan layer %q: %w", table, err)
		}

		g, _, err := decodeGeometry(blob)
		if err != nil {
			return model.FeatureSet{}, fmt.Errorf("layer %q: %w", table, err)
		}
		record := make(map[string]any, len(fields))
		for i, f := range fields {
			record[f.Name] = attrs[i]
		}
		fs.Features = append(fs.Features, model.Feature{Geom: g, Attrs: record})
	}
	if err := rows.Err(); err != nil {
		return model.FeatureSet{}, fmt.Errorf("read layer %q: %w", table, err)
	}
	return fs, nil
}

// Write creates a GeoPackage at path containing the given layers. An
// existing file at path is deleted first.
func Write(path string, layers []model.FeatureSet) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove existing output: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("create geopackage %s: %w", path, err)
	}
	defer db.Close()

	setup := []string{
		fmt.Sprintf("PRAGMA application_id = %d", applicationID),
		fmt.Sprintf("PRAGMA user_version = %d", userVersion),
		`CREATE TABLE gpkg_spatial_ref_sys (
			srs_name TEXT NOT NULL,
			srs_id INTEGER NOT NULL PRIMARY KEY,
			organization TEXT NOT NULL,
			organization_coordsys_id INTEGER NOT NULL,
			definition TEXT NOT NULL,
			description TEXT
		)`,
		`INSERT INTO gpkg_spatial_ref_sys VALUES
			('Undefined cartesian SRS', -1, 'NONE', -1, 'undefined', NULL),
			('Undefined geographic SRS', 0, 'NONE', 0, 'undefined', NULL),
			('WGS 84 geodetic', 4326, 'EPSG', 4326, 'GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]]]', NULL)`,
		`CREATE TABLE gpkg_contents (
			table_name TEXT NOT NULL PRIMARY KEY,
			data_type TEXT NOT NULL,
			identifier TEXT UNIQUE,
			description TEXT DEFAULT '',
			last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			min_x DOUBLE, min_y DOUBLE, max_x DOUBLE, max_y DOUBLE,
			srs_id INTEGER,
			CONSTRAINT fk_gc_r_srs_id FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys(srs_id)
		)`,
		`CREATE TABLE gpkg_geometry_columns (
			table_name TEXT NOT NULL,
			column_name TEXT NOT NULL,
			geometry_type_name TEXT NOT NULL,
			srs_id INTEGER NOT NULL,
			z TINYINT NOT NULL,
			m TINYINT NOT NULL,
			CONSTRAINT pk_geom_cols PRIMARY KEY (table_name, column_name)
		)`,
	}
	for _, stmt := range setup {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("initialize geopackage: %w", err)
		}
	}

	for _, layer := range layers {
		if err := writeLayer(db, layer); err != nil {
			return err
		}
	}
	return nil
}

func writeLayer(db *sql.DB, layer model.FeatureSet) error {
	if _, err := db.Exec(
		`INSERT OR IGNORE INTO gpkg_spatial_ref_sys
			(srs_name, srs_id, organization, organization_coordsys_id, definition)
			VALUES (?, ?, 'EPSG', ?, 'undefined')`,
		fmt.Sprintf("EPSG:%d", layer.SRID), layer.SRID, layer.SRID,
	); err != nil {
		return fmt.Errorf("register SRS %d: %w", layer.SRID, err)
	}

	colDefs := []string{`fid INTEGER PRIMARY KEY AUTOINCREMENT`, `geom BLOB`}
	for _, f := range layer.Fields {
		typ := f.Type
		if typ == "" {
			typ = "TEXT"
		}
		colDefs = append(colDefs, fmt.Sprintf("%s %s", quoteIdent(f.Name), typ))
	}
	if _, err := db.Exec(fmt.Sprintf(
		`CREATE TABLE %s (%s)`, quoteIdent(layer.Name), strings.Join(colDefs, ", "),
	)); err != nil {
		return fmt.Errorf("create layer %q: %w", layer.Name, err)
	}

	if _, err := db.Exec(
		`INSERT INTO gpkg_contents (table_name, data_type, identifier, srs_id) VALUES (?, 'features', ?, ?)`,
		layer.Name, layer.Name, layer.SRID,
	); err != nil {
		return fmt.Errorf("register layer %q: %w", layer.Name, err)
	}
	if _, err := db.Exec(
		`INSERT INTO gpkg_geometry_columns VALUES (?, 'geom', 'GEOMETRY', ?, 0, 0)`,
		layer.Name, layer.SRID,
	); err != nil {
		return fmt.Errorf("register geometry column for %q: %w", layer.Name, err)
	}

	placeholders := make([]string, 0, len(layer.Fields)+1)
	cols := []string{"geom"}
	placeholders = append(placeholders, "?")
	for _, f := range layer.Fields {
		cols = append(cols, quoteIdent(f.Name))
		placeholders = append(placeholders, "?")
	}
	insert := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(layer.Name), strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("write layer %q: %w", layer.Name, err)
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("write layer %q: %w", layer.Name, err)
	}
	defer stmt.Close()

	for _, feat := range layer.Features {
		args := make([]any, 0, len(layer.Fields)+1)
		args = append(args, encodeGeometry(feat.Geom, layer.SRID))
		for _, f := range layer.Fields {
			args = append(args, feat.Attrs[f.Name])
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("write layer %q: %w", layer.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write layer %q: %w", layer.Name, err)
	}
	return nil
}

// tableFields lists a table's attribute columns in declaration order,
// excluding the geometry column and the integer primary key.
func tableFields(db *sql.DB, table, geomCol string) ([]model.Field, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("describe layer %q: %w", table, err)
	}
	defer rows.Close()

	var fields []model.Field
	for rows.Next() {
		var cid, notNull, pk int
		var name, typ string
		var dflt any
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("describe layer %q: %w", table, err)
		}
		if name == geomCol || pk != 0 {
			continue
		}
		fields = append(fields, model.Field{Name: name, Type: typ})
	}
	return fields, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
