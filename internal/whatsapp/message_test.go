package whatsapp

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/abdul977/muahibstores/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNaira(t *testing.T) {
	assert.Equal(t, "₦15,000.00", FormatNaira(15000))
	assert.Equal(t, "₦1,234,567.50", FormatNaira(1234567.5))
	assert.Equal(t, "₦0.00", FormatNaira(0))
}

func TestInquiryMessage(t *testing.T) {
	p := &catalog.Product{
		Name:     "3 in 1 Multipurpose Bag",
		Price:    15000,
		Features: []string{"USB Charging Port", "Anti-theft Design"},
	}

	want := "🛍 Product Inquiry\n\n" +
		"Item: 3 in 1 Multipurpose Bag\n" +
		"Price: ₦15,000.00\n" +
		"Features: USB Charging Port, Anti-theft Design\n\n" +
		"I'm interested in this product. Please provide more details and ordering information."
	assert.Equal(t, want, InquiryMessage(p))
}

func TestOrderMessageDefaults(t *testing.T) {
	msg := OrderMessage(Order{
		OrderID:            "#MH-ABC1234-XYZ",
		ItemName:           "I20 Ultra",
		Quantity:           2,
		TotalAmount:        50000,
		ProductDescription: "Smartwatch",
	})

	assert.True(t, strings.HasPrefix(msg, "🛍 New Order #MH-ABC1234-XYZ\n\nItem: I20 Ultra\nQuantity: 2\nTotal Amount: ₦50,000.00"))
	assert.Contains(t, msg, "Name: Customer\nLocation: Nigeria\nDelivery Option: Delivery")
	assert.True(t, strings.HasSuffix(msg, "payment must be made before delivery."))
}

func TestEncodeMessageMatchesURIComponent(t *testing.T) {
	assert.Equal(t, "Hello%20World!%20(it's)%20*ok*%20~%2F%26%3D%2B", EncodeMessage("Hello World! (it's) *ok* ~/&=+"))
	assert.Equal(t, "%F0%9F%9B%8D%0A%E2%82%A6", EncodeMessage("🛍\n₦"))
}

func TestLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/2348144493361?text=Hi%20there", Link("2348144493361", "Hi there"))
}

func TestGenerateOrderID(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.Regexp(t, `^#MH-[A-Z0-9]{7}-[A-Z0-9]{3}$`, GenerateOrderID())
	}
}

func TestQRCode(t *testing.T) {
	data, err := QRCode("https://wa.me/2348144493361?text=Hi")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, QRCodeSize, img.Bounds().Dx())
}
