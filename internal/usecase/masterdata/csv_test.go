package masterdata

import (
	"bytes"
	"testing"
)

func TestSniffDelimiter(t *testing.T) {
	cases := []struct {
		name string
		data string
		want rune
	}{
		{"semicolon", "sku;description;category\n1;a;01", ';'},
		{"comma", "sku,description,category\n1,a,01", ','},
		{"tab", "sku\tdescription\tcategory\n1\ta\t01", '\t'},
		{"semicolon wins ties", "sku\n1", ';'},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sniffDelimiter([]byte(tc.data)); got != tc.want {
				t.Fatalf("sniffDelimiter() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseMasterCSVHeaderVariants(t *testing.T) {
	data := []byte("Codigo;Descripcion;Categoria;Tipo;Clasificacion\n7501001;Cola 600ml;01;01;02\n;skipped;01;01;01\n")

	items, err := ParseMasterCSV(data)
	if err != nil {
		t.Fatalf("ParseMasterCSV() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1 (empty sku row skipped)", len(items))
	}

	item := items[0]
	if item.SKU != "7501001" || item.Description != "Cola 600ml" {
		t.Fatalf("item = %+v", item)
	}
	if item.CategoryCode != "01" || item.ClassificationCode != "02" {
		t.Fatalf("codes = %s|%s|%s", item.CategoryCode, item.TypeCode, item.ClassificationCode)
	}
}

func TestParseMasterCSVCommaAndBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("sku,description,category,type,classification\n7501002,Chips 45g,02,01,01\n")...)

	items, err := ParseMasterCSV(data)
	if err != nil {
		t.Fatalf("ParseMasterCSV() error = %v", err)
	}
	if len(items) != 1 || items[0].SKU != "7501002" {
		t.Fatalf("items = %+v", items)
	}
}

func TestParseMasterCSVRequiresSKUColumn(t *testing.T) {
	if _, err := ParseMasterCSV([]byte("name;price\nfoo;1\n")); err == nil {
		t.Fatalf("ParseMasterCSV() expected error for missing sku column")
	}
	if _, err := ParseMasterCSV([]byte("sku;description\n")); err == nil {
		t.Fatalf("ParseMasterCSV() expected error for empty data")
	}
}

func TestParseDictionaryCSVSkipsHeader(t *testing.T) {
	rows, err := ParseDictionaryCSV([]byte("code;name\n01;Beverages\n2;Snacks\n"))
	if err != nil {
		t.Fatalf("ParseDictionaryCSV() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Code != "01" || rows[0].Name != "Beverages" {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
	if rows[1].Code != "2" {
		t.Fatalf("rows[1] = %+v (padding happens on upsert)", rows[1])
	}
}

func TestToCSVWritesBOMAndSemicolons(t *testing.T) {
	data, err := ToCSV([][]string{{"sku", "description"}, {"7501001", "Cola 600ml"}})
	if err != nil {
		t.Fatalf("ToCSV() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatalf("csv must start with a UTF-8 BOM")
	}
	if !bytes.Contains(data, []byte("7501001;Cola 600ml")) {
		t.Fatalf("csv body = %q", data)
	}
}
