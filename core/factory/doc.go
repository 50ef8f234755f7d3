// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[source.Reader]()
//	reg.Register("csv", func(conf map[string]any) (source.Reader, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewCSVReader(c.Path), nil
//	})
//	r, err := reg.Create(factory.ModuleConfig{Type: "csv", Conf: map[string]any{"path": "bf.csv"}})
package factory
