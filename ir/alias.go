package ir

// Alias is a typedef or using-declaration that did not fold into a record.
type Alias struct {
	Name          string
	Target        Type
	Documentation Documentation
	Source        Source
}

// Kind returns ItemAlias.
func (*Alias) Kind() ItemKind { return ItemAlias }

// ItemName returns the alias name.
func (a *Alias) ItemName() string { return a.Name }

// Doc returns the alias documentation.
func (a *Alias) Doc() Documentation { return a.Documentation }

// Src returns the alias source location.
func (a *Alias) Src() Source { return a.Source }

func (*Alias) sealed() {}
