package exampleapp

// PropertySubclass is nested inside Item.
type PropertySubclass struct {
	SubProperty any `json:"sub_property" default:"null"`
}

// Item is the resource managed by the application. Property1 identifies
// the item.
type Item struct {
	Property1 string             `json:"property1"`
	Property2 any                `json:"property2,omitempty" default:"null"`
	Property3 *PropertySubclass  `json:"property3,omitempty" default:"null"`
	Property4 []PropertySubclass `json:"property4,omitempty" default:"null"`
}

const itemDoc = `
@description:
    This is an example of a model whose properties are derived from the
    fields of its type.
@notes:
    property1 is required, the other properties are optional.
@property property3: Item description
@ptype property3: L{PropertySubclass}
@ptype property4: C{list} of L{PropertySubclass}
`
