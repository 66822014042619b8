package debugui

import (
	"fmt"
	"reflect"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
)

var durationType = reflect.TypeFor[time.Duration]()

// ConfigInspector shows the session configuration as a read-only tree.
type ConfigInspector struct {
	game   Game
	fields map[reflect.Type][]int
}

func NewConfigInspector(game Game) ConfigInspector {
	return ConfigInspector{game: game, fields: make(map[reflect.Type][]int)}
}

// exportedFields returns the indices of t's exported fields, memoized per
// config section type.
func (ci *ConfigInspector) exportedFields(t reflect.Type) []int {
	if idx, ok := ci.fields[t]; ok {
		return idx
	}
	var idx []int
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				idx = append(idx, i)
			}
		}
	}
	ci.fields[t] = idx
	return idx
}

func (ci *ConfigInspector) Render() {
	if !imgui.BeginV("Config", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	cfg := reflect.ValueOf(ci.game.Config())
	for _, i := range ci.exportedFields(cfg.Type()) {
		ci.renderValue(cfg.Type().Field(i).Name, cfg.Field(i))
	}

	imgui.End()
}

func (ci *ConfigInspector) renderValue(name string, val reflect.Value) {
	switch {
	case val.Kind() == reflect.Struct && val.Type() != durationType:
		if imgui.TreeNodeStr(name) {
			for _, i := range ci.exportedFields(val.Type()) {
				ci.renderValue(val.Type().Field(i).Name, val.Field(i))
			}
			imgui.TreePop()
		}
	case val.Kind() == reflect.Slice:
		if imgui.TreeNodeStr(fmt.Sprintf("%s [%d]", name, val.Len())) {
			for i := 0; i < val.Len(); i++ {
				ci.renderValue(fmt.Sprintf("%d", i), val.Index(i))
			}
			imgui.TreePop()
		}
	default:
		imgui.Text(formatField(name, val))
	}
}

func formatField(name string, val reflect.Value) string {
	if !val.IsValid() {
		return name + ": <invalid>"
	}
	if val.Kind() == reflect.Pointer && val.IsNil() {
		return name + ": nil"
	}
	if val.Type() == durationType {
		return fmt.Sprintf("%s: %s", name, time.Duration(val.Int()))
	}

	switch val.Kind() {
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%s: %g", name, val.Float())
	case reflect.String:
		return fmt.Sprintf("%s: %q", name, val.String())
	case reflect.Map:
		return fmt.Sprintf("%s: map[%d items]", name, val.Len())
	}
	return fmt.Sprintf("%s: %v", name, val.Interface())
}
