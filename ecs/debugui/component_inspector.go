package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/hotreg/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

func (ci *ComponentInspectorComponent) Think(frame *ecs.UpdateFrame, e ecs.Entity) error {
	ci.Render(frame.World, selection(frame.World).Entity)
	return nil
}

func (ci *ComponentInspectorComponent) Render(w *ecs.World, selected ecs.Entity) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if selected.IsNull() {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}
	if !w.Valid(selected) {
		imgui.Text(fmt.Sprintf("Entity %s is no longer valid", selected))
		imgui.End()
		return
	}

	name, _ := w.Host().Name(selected)
	imgui.Text(fmt.Sprintf("Entity: %s %s", selected, name))
	if t, err := w.Transform(selected); err == nil {
		imgui.Text(fmt.Sprintf("Position: (%.2f, %.2f, %.2f)", t.Position.X, t.Position.Y, t.Position.Z))
	}
	imgui.Separator()

	for _, pool := range w.Pools() {
		if !pool.Contains(selected) {
			continue
		}
		component := w.GetComponent(selected, pool.Type())
		if component == nil {
			continue
		}

		label := fmt.Sprintf("%s [%s]", pool.Name(), pool.Capabilities())
		if imgui.TreeNodeStr(label) {
			ci.renderComponent(reflect.ValueOf(component).Elem())
			imgui.TreePop()
		}
	}

	imgui.End()
}

// renderComponent draws the exported fields of val. val comes from a
// storage pointer, so edits are written straight into the component.
func (ci *ComponentInspectorComponent) renderComponent(val reflect.Value) {
	if val.Kind() != reflect.Struct {
		ci.renderField("value", val, FieldInfo{Type: val.Type()})
		return
	}

	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}
		name := field.Name
		if field.Transient {
			name += " (not reloaded)"
		}
		ci.renderField(name, fieldVal, field)
	}
}

func (ci *ComponentInspectorComponent) renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Pointer && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			ci.renderComponent(val)
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		if imgui.TreeNodeStr(fmt.Sprintf("%s: map[%d items]", name, val.Len())) {
			iter := val.MapRange()
			for iter.Next() {
				imgui.BulletText(fmt.Sprintf("%v: %v", iter.Key().Interface(), iter.Value().Interface()))
			}
			imgui.TreePop()
		}

	case reflect.Func:
		imgui.Text(fmt.Sprintf("%s: func", name))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
