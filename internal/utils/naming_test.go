package utils

import "testing"

func TestNamingHelpers(t *testing.T) {
	tests := []struct {
		input     string
		class     string
		attribute string
		constant  string
		file      string
	}{
		{"Order", "Order", "order", "ORDER", "order"},
		{"ORDERLINE", "Orderline", "orderline", "ORDERLINE", "orderline"},
		{"order line", "OrderLine", "orderline", "ORDER_LINE", "order_line"},
		{"ORDER_LINE", "OrderLine", "orderline", "ORDER_LINE", "order_line"},
		{"customer-2", "Customer2", "customer2", "CUSTOMER_2", "customer_2"},
		{"", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ClassName(tt.input); got != tt.class {
				t.Errorf("ClassName(%q) = %q, want %q", tt.input, got, tt.class)
			}
			if got := AttributeName(tt.input); got != tt.attribute {
				t.Errorf("AttributeName(%q) = %q, want %q", tt.input, got, tt.attribute)
			}
			if got := ConstantName(tt.input); got != tt.constant {
				t.Errorf("ConstantName(%q) = %q, want %q", tt.input, got, tt.constant)
			}
			if got := FileName(tt.input); got != tt.file {
				t.Errorf("FileName(%q) = %q, want %q", tt.input, got, tt.file)
			}
		})
	}
}
