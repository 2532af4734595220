package components

import (
	"pxengine/internal/engine"
)

func init() {
	engine.RegisterComponent("Interactor", func() engine.Serializable {
		return NewInteractor()
	})
}

// ItemTag marks GameObjects an Interactor picks up, removing them from the
// scene.
const ItemTag = "item"

// Interactor tracks the nearest object under the CharacterController's
// interaction ray.
type Interactor struct {
	engine.BaseComponent

	// Focus is the object currently under the ray.
	Focus engine.GameObjectRef

	OnFocus    engine.EventWithArg[*engine.GameObject]
	OnInteract engine.EventWithArg[*engine.GameObject]
}

func NewInteractor() *Interactor {
	return &Interactor{}
}

func (i *Interactor) Update(deltaTime float32) {
	g := i.GetGameObject()
	cc := engine.GetComponent[*CharacterController](g)
	if cc == nil || cc.Player() == nil || g.Scene == nil {
		i.Focus.Clear()
		return
	}

	prev := i.Focus.UID
	i.Focus.Clear()
	target, ok := cc.Player().InteractTarget()
	if !ok {
		return
	}
	obj := g.Scene.FindByBody(target.Body.ID())
	if obj == nil {
		return
	}
	i.Focus.Set(obj)
	if obj.UID != prev {
		i.OnFocus.Invoke(obj)
	}
}

// Target returns the focused object, or nil.
func (i *Interactor) Target() *engine.GameObject {
	g := i.GetGameObject()
	if g == nil {
		return nil
	}
	return i.Focus.Get(g.Scene)
}

// CanInteract reports whether the focused object is an item.
func (i *Interactor) CanInteract() bool {
	t := i.Target()
	return t != nil && t.HasTag(ItemTag)
}

// Interact fires OnInteract for a focused item and removes it from the
// scene. It returns the item, or nil when nothing could be picked up.
func (i *Interactor) Interact() *engine.GameObject {
	if !i.CanInteract() {
		return nil
	}
	t := i.Target()
	i.OnInteract.Invoke(t)
	i.GetGameObject().Scene.RemoveGameObject(t)
	i.Focus.Clear()
	return t
}

func (i *Interactor) TypeName() string {
	return "Interactor"
}

func (i *Interactor) Serialize() map[string]any {
	return map[string]any{"type": "Interactor"}
}

func (i *Interactor) Deserialize(data map[string]any) {}
