package pgproto3

// FieldDescription is one column's metadata from a RowDescription
// message.
type FieldDescription struct {
	Name             string
	TableOID         int32
	ColumnAttrNumber int16
	DataTypeOID      int32
	DataTypeSize     int16 // may be negative for variable-length types
	TypeModifier     int32
	FormatCode       int16 // 0 = text, 1 = binary
}

// decodeRowDescription parses a RowDescription payload: int16 field
// count, then that many field records.
func decodeRowDescription(body []byte) ([]FieldDescription, error) {
	r := newReadBuf(body)

	count, err := r.int16()
	if err != nil {
		return nil, err
	}

	fields := make([]FieldDescription, count)
	for i := range fields {
		name, err := r.cstring()
		if err != nil {
			return nil, err
		}
		tableOID, err := r.int32()
		if err != nil {
			return nil, err
		}
		attrNum, err := r.int16()
		if err != nil {
			return nil, err
		}
		typeOID, err := r.int32()
		if err != nil {
			return nil, err
		}
		typeSize, err := r.int16()
		if err != nil {
			return nil, err
		}
		typeMod, err := r.int32()
		if err != nil {
			return nil, err
		}
		formatCode, err := r.int16()
		if err != nil {
			return nil, err
		}

		fields[i] = FieldDescription{
			Name:             name,
			TableOID:         tableOID,
			ColumnAttrNumber: attrNum,
			DataTypeOID:      typeOID,
			DataTypeSize:     typeSize,
			TypeModifier:     typeMod,
			FormatCode:       formatCode,
		}
	}

	return fields, nil
}

// decodeDataRow parses a DataRow payload against the current row
// description, which must declare the same column count. Null cells
// (length 0xFFFFFFFF on the wire) carry no byte payload.
func decodeDataRow(body []byte, current []FieldDescription) ([]DataCell, error) {
	r := newReadBuf(body)

	count, err := r.int16()
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoRowDescription
	}
	if int(count) != len(current) {
		return nil, ErrRowDescMismatch
	}

	cells := make([]DataCell, count)
	for i := range cells {
		data, isNull, err := r.lengthPrefixedBytes()
		if err != nil {
			return nil, err
		}
		cells[i] = DataCell{
			Null:        isNull,
			Data:        data,
			Description: &current[i],
		}
	}

	return cells, nil
}
