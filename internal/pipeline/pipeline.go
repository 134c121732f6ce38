// Package pipeline sequences the whole run: parse the selection, select
// townships and sections, dissolve clip masks, clip parcel datasets and
// assemble the output package.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jmcrawford/areamap/internal/clip"
	"github.com/jmcrawford/areamap/internal/config"
	"github.com/jmcrawford/areamap/internal/gpkg"
	"github.com/jmcrawford/areamap/internal/mask"
	"github.com/jmcrawford/areamap/internal/model"
	"github.com/jmcrawford/areamap/internal/request"
	"github.com/jmcrawford/areamap/internal/selector"
)

// ErrEmptySelection indicates no townships matched the requested keys;
// with nothing to clip against the run cannot continue.
var ErrEmptySelection = errors.New("no townships matched the requested township/range keys")

type LayerCount struct {
	Name  string
	Count int
}

// Summary reports what was written where.
type Summary struct {
	Output string
	Layers []LayerCount
}

type Pipeline struct {
	cfg     config.Config
	log     zerolog.Logger
	matcher selector.Matcher
	clipper clip.Engine
}

func New(cfg config.Config, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		log:     log,
		matcher: selector.New(log.With().Str("component", "selector").Logger()),
		clipper: clip.New(log.With().Str("component", "clip").Logger()),
	}
}

// Run executes the pipeline once. Stages are strictly sequential; any
// error aborts the run before the output package is created.
func (p *Pipeline) Run() (*Summary, error) {
	p.log.Info().Str("config", p.cfg.ConfigPath).Msg("reading selection file")
	req, err := request.Load(p.cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	p.logRequest(req)

	p.log.Info().Str("path", p.cfg.TownshipPath).Msg("reading townships")
	townshipsAll, err := gpkg.ReadLayer(p.cfg.TownshipPath, "")
	if err != nil {
		return nil, err
	}
	townships, err := p.matcher.ByKeys(townshipsAll, p.cfg.PLSSIDField, req.Keys())
	if err != nil {
		return nil, err
	}
	if townships.Empty() {
		return nil, ErrEmptySelection
	}

	p.log.Info().Str("path", p.cfg.SectionPath).Msg("reading sections")
	sectionsAll, err := gpkg.ReadLayer(p.cfg.SectionPath, "")
	if err != nil {
		return nil, err
	}
	// all sections inside the selected townships
	sections, err := p.matcher.ByKeys(sectionsAll, p.cfg.PLSSIDField, req.Keys())
	if err != nil {
		return nil, err
	}
	if sections.Empty() {
		p.log.Warn().Msg("no sections matched the requested keys")
	}
	// only the specifically requested sections
	sectionsTarget, err := p.matcher.ByKeysAndSections(sections, p.cfg.PLSSIDField, p.cfg.SectionIDField, req.Sections)
	if err != nil {
		return nil, err
	}

	p.log.Info().Msg("dissolving townships into clip mask")
	townshipMask, err := mask.Build(townships)
	if err != nil {
		return nil, err
	}

	var sectionMask *model.ClipMask
	if sectionsTarget.Empty() {
		p.log.Warn().Msg("no specific sections selected, skipping section-based parcel clips")
	} else {
		p.log.Info().Msg("dissolving sections into clip mask")
		m, err := mask.Build(sectionsTarget)
		if err != nil {
			return nil, err
		}
		sectionMask = &m
	}

	sum := &Summary{}
	var layers []model.FeatureSet
	add := func(name string, fs model.FeatureSet) {
		sum.Layers = append(sum.Layers, LayerCount{Name: name, Count: fs.Count()})
		if fs.Empty() {
			p.log.Warn().Str("layer", name).Msg("layer is empty and will be omitted")
			return
		}
		fs.Name = name
		layers = append(layers, fs)
	}

	add("townships", townships)
	add("sections", sections)
	add("sections_target", sectionsTarget)

	for _, src := range p.cfg.Parcels {
		p.log.Info().Str("path", src.Path).Str("parcels", src.Label).Msg("reading parcels")
		parcels, err := gpkg.ReadLayer(src.Path, "")
		if err != nil {
			return nil, err
		}

		byTownship, err := p.clipper.Clip(parcels, townshipMask, src.Label)
		if err != nil {
			return nil, err
		}
		prefix := strings.ToLower(src.Label)
		add(prefix+"_parcels", byTownship)

		bySection := model.FeatureSet{}
		if sectionMask != nil {
			bySection, err = p.clipper.Clip(parcels, *sectionMask, src.Label+" (sections)")
			if err != nil {
				return nil, err
			}
		}
		add(prefix+"_parcels_sections", bySection)
	}

	sum.Output = p.outputPath(req)
	p.log.Info().Str("output", sum.Output).Int("layers", len(layers)).Msg("writing geopackage")
	if err := gpkg.Write(sum.Output, layers); err != nil {
		return nil, err
	}

	for _, lc := range sum.Layers {
		p.log.Info().Str("layer", lc.Name).Int("count", lc.Count).Msg("summary")
	}
	return sum, nil
}

func (p *Pipeline) logRequest(req *model.SelectionRequest) {
	if req.AreaLabel != "" {
		p.log.Info().Str("area", req.AreaLabel).Msg("area label")
	}
	for _, k := range req.Keys() {
		secs := req.Sections[k]
		if len(secs) == 0 {
			p.log.Info().Stringer("key", k).Msg("requested township (no sections listed)")
			continue
		}
		p.log.Info().Stringer("key", k).Ints("sections", secs).Msg("requested township")
	}
}

// outputPath derives the package name from the area label, or uses the
// explicit override.
func (p *Pipeline) outputPath(req *model.SelectionRequest) string {
	if p.cfg.OutputName != "" {
		return p.cfg.OutputName
	}
	if req.AreaLabel != "" {
		return fmt.Sprintf("%s_area_map.gpkg", req.AreaLabel)
	}
	return "area_map.gpkg"
}
