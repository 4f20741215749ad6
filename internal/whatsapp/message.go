package whatsapp

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"

	"github.com/abdul977/muahibstores/internal/catalog"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// QRCodeSize is the pixel size of generated QR codes
const QRCodeSize = 256

var nairaPrinter = message.NewPrinter(language.English)

// FormatNaira renders an amount as ₦ with grouping and two decimals, e.g. ₦15,000.00
func FormatNaira(amount float64) string {
	return "₦" + nairaPrinter.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// InquiryMessage is the pre-filled text for asking about a product
func InquiryMessage(p *catalog.Product) string {
	return fmt.Sprintf(`🛍 Product Inquiry

Item: %s
Price: %s
Features: %s

I'm interested in this product. Please provide more details and ordering information.`,
		p.Name, FormatNaira(p.Price), strings.Join(p.Features, ", "))
}

// Order holds what goes into an order message. Empty customer fields get defaults.
type Order struct {
	OrderID            string  `json:"orderId"`
	ItemName           string  `json:"itemName"`
	Quantity           int     `json:"quantity"`
	TotalAmount        float64 `json:"totalAmount"`
	ProductDescription string  `json:"productDescription"`
	CustomerName       string  `json:"customerName,omitempty"`
	CustomerLocation   string  `json:"customerLocation,omitempty"`
	DeliveryOption     string  `json:"deliveryOption,omitempty"`
}

// OrderMessage is the pre-filled text for placing an order
func OrderMessage(o Order) string {
	if o.CustomerName == "" {
		o.CustomerName = "Customer"
	}
	if o.CustomerLocation == "" {
		o.CustomerLocation = "Nigeria"
	}
	if o.DeliveryOption == "" {
		o.DeliveryOption = "Delivery"
	}

	return fmt.Sprintf(`🛍 New Order %s

Item: %s
Quantity: %d
Total Amount: %s

Product Description: %s

Customer Details:
Name: %s
Location: %s
Delivery Option: %s

Note: For deliveries outside Abuja, payment must be made before delivery.`,
		o.OrderID, o.ItemName, o.Quantity, FormatNaira(o.TotalAmount), o.ProductDescription,
		o.CustomerName, o.CustomerLocation, o.DeliveryOption)
}

var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeMessage percent-encodes text the way browsers encode a URI component
func EncodeMessage(text string) string {
	return componentUnescapes.Replace(url.QueryEscape(text))
}

// Link builds a wa.me link with a pre-filled message
func Link(phoneNumber, text string) string {
	return "https://wa.me/" + phoneNumber + "?text=" + EncodeMessage(text)
}

const orderIDChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderID returns an id shaped like #MH-XXXXXXX-XXX
func GenerateOrderID() string {
	pick := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = orderIDChars[rand.Intn(len(orderIDChars))]
		}
		return string(b)
	}
	return "#MH-" + pick(7) + "-" + pick(3)
}

// QRCode renders content as a PNG QR code
func QRCode(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, QRCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// Inquiry is a product inquiry ready to open in WhatsApp
type Inquiry struct {
	ProductID string `json:"productId"`
	Message   string `json:"message"`
	Link      string `json:"link"`
}

// Inquiry builds the inquiry message and link to the business number
func (s *Service) Inquiry(p *catalog.Product) Inquiry {
	text := InquiryMessage(p)
	return Inquiry{
		ProductID: p.ID,
		Message:   text,
		Link:      Link(s.businessNumber, text),
	}
}

// InquiryQRCode renders the product inquiry link as a QR code
func (s *Service) InquiryQRCode(p *catalog.Product) ([]byte, error) {
	return QRCode(s.Inquiry(p).Link)
}

// OrderLink assigns an order id when missing and returns the order message link
func (s *Service) OrderLink(o Order) (Order, string) {
	if o.OrderID == "" {
		o.OrderID = GenerateOrderID()
	}
	return o, Link(s.businessNumber, OrderMessage(o))
}
