// Package schema holds the in-memory protocol description: message types
// (GeneratedClass), their fields (ClassAttribute) and construction-time
// overrides (InitialValue), together with a YAML loader.
//
// Declaration order of attributes is wire order. A class's parent layout
// always precedes its own attributes on the wire.
//
// # File format
//
//	version: "1"
//	classes:
//	  - name: EntityStatePdu
//	    parent: Pdu                         # omitted or "root" means no parent
//	    attributes:
//	      - name: numberOfParameters
//	        primitive: unsigned byte
//	        count_of: parameters            # count field, no stored value
//	      - name: entityID
//	        class: EntityID                 # by-value reference
//	      - name: marking
//	        fixed_list: byte[11]            # or {type: byte, length: 11}
//	        could_be_string: true
//	      - name: parameters
//	        variable_list: Parameter        # or {type: Parameter, count_field: numberOfParameters}
//	      - name: scratch
//	        primitive: unsigned short
//	        serialize: false
//	        default: "0"
//	    initial_values:
//	      - {setter: setPduType, value: "1"}
//
// Loading only builds the model. Names are bound by the resolver.
package schema
