package engine

import "testing"

type MockComponent struct {
	BaseComponent
	Speed  float32
	Offset [3]float32
	Active bool
}

func (m *MockComponent) TypeName() string { return "Mock" }

func (m *MockComponent) Serialize() map[string]any {
	return map[string]any{
		"type":  "Mock",
		"speed": m.Speed,
	}
}

func (m *MockComponent) Deserialize(data map[string]any) {
	if v, ok := PropFloat(data, "speed"); ok {
		m.Speed = v
	}
	if v, ok := PropVec3(data, "offset"); ok {
		m.Offset = [3]float32{v.X, v.Y, v.Z}
	}
	if v, ok := PropBool(data, "active"); ok {
		m.Active = v
	}
}

func mockFactory() Serializable {
	return &MockComponent{Speed: 1}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	componentRegistry = map[string]ComponentFactory{}
	RegisterComponent("Duplicate", mockFactory)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic on duplicate registration")
		}
	}()

	RegisterComponent("Duplicate", mockFactory)
}

func TestCreateComponent(t *testing.T) {
	componentRegistry = map[string]ComponentFactory{}
	RegisterComponent("Mock", mockFactory)

	props := map[string]any{
		"speed":  10.5,
		"offset": []any{1, 2.5, -3},
		"active": true,
	}
	c := CreateComponent("Mock", props)
	m, ok := c.(*MockComponent)
	if !ok {
		t.Fatalf("Expected *MockComponent, got %T", c)
	}
	if m.Speed != 10.5 {
		t.Errorf("Expected Speed 10.5, got %f", m.Speed)
	}
	if m.Offset != [3]float32{1, 2.5, -3} {
		t.Errorf("Expected offset (1,2.5,-3), got %v", m.Offset)
	}
	if !m.Active {
		t.Error("Expected Active to be set")
	}
}

func TestCreateComponentDefaults(t *testing.T) {
	componentRegistry = map[string]ComponentFactory{}
	RegisterComponent("Mock", mockFactory)

	m := CreateComponent("Mock", nil).(*MockComponent)
	if m.Speed != 1 {
		t.Errorf("Expected default speed 1, got %f", m.Speed)
	}
	if CreateComponent("DoesNotExist", nil) != nil {
		t.Error("CreateComponent should return nil for an unknown name")
	}
}

func TestRegisteredComponentsSorted(t *testing.T) {
	componentRegistry = map[string]ComponentFactory{}
	RegisterComponent("C", mockFactory)
	RegisterComponent("A", mockFactory)
	RegisterComponent("B", mockFactory)

	names := RegisteredComponents()
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "C" {
		t.Errorf("Expected [A B C], got %v", names)
	}
}

func TestPropVec3Rejects(t *testing.T) {
	props := map[string]any{
		"short": []any{1, 2},
		"text":  []any{1, "x", 3},
		"flat":  4.0,
	}
	for key := range props {
		if _, ok := PropVec3(props, key); ok {
			t.Errorf("Expected %s to be rejected", key)
		}
	}
}
