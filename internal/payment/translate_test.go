package payment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/berat-eth/huglu-storefront/pkg/errors"
)

func TestTranslateDecline(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Insufficient funds", "Kartınızda yeterli bakiye bulunmuyor."},
		{"INSUFFICIENT BALANCE", "Kartınızda yeterli bakiye bulunmuyor."},
		{"Not sufficient funds", "Kartınızda yeterli bakiye bulunmuyor."},
		{"Invalid card number", "Kart bilgileri geçersiz. Lütfen kontrol edip tekrar deneyin."},
		{"invalid cvc", "Güvenlik kodu hatalı."},
		{"Expired card", "Kartınızın son kullanma tarihi geçmiş."},
		{"Do not honor", "Bankanız işlemi onaylamadı. Lütfen bankanızla iletişime geçin."},
		{"Do Not Honour", "Bankanız işlemi onaylamadı. Lütfen bankanızla iletişime geçin."},
		{"Lost card, pick up", "Bu kart ile işlem yapılamıyor."},
		{"stolen card", "Bu kart ile işlem yapılamıyor."},
		{"Suspected fraud", "İşlem güvenlik nedeniyle reddedildi."},
		{"Restricted card", "Kartınız bu işleme kapalı. İnternet alışverişi iznini kontrol edin."},
		{"3D Secure authentication failed", "3D Secure doğrulaması başarısız oldu. Lütfen tekrar deneyin."},
		{"Exceeds withdrawal limit", "Kart limitiniz bu işlem için yetersiz."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TranslateDecline(tc.raw), "raw=%q", tc.raw)
	}
}

func TestTranslateDecline_UnknownPassesThrough(t *testing.T) {
	assert.Equal(t, "Something very specific happened", TranslateDecline("Something very specific happened"))
}

func TestTranslateDecline_EmptyGetsGenericText(t *testing.T) {
	assert.Equal(t, GenericFailureMessage, TranslateDecline(""))
	assert.Equal(t, GenericFailureMessage, TranslateDecline("   "))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "geçersiz kart numarası",
		UserMessage(&apperrors.ErrValidation{Field: "cardNumber", Message: "geçersiz kart numarası"}))
	assert.Equal(t, "Kartınızda yeterli bakiye bulunmuyor.",
		UserMessage(&apperrors.ErrGatewayDeclined{Raw: "insufficient funds"}))
	assert.Equal(t, "custom text",
		UserMessage(&apperrors.ErrGatewayDeclined{Raw: "insufficient funds", UserMessage: "custom text"}))
	assert.Equal(t, ConnectivityMessage,
		UserMessage(&apperrors.ErrConnectivity{Op: "POST /payments", Err: errors.New("dial tcp: timeout")}))
	assert.Equal(t, UnconfirmedMessage,
		UserMessage(&apperrors.ErrUnconfirmed{OrderID: "order-1", Attempts: 5}))
	assert.Equal(t, "Devam eden bir ödeme işleminiz var. Lütfen bekleyin.",
		UserMessage(&apperrors.ErrAttemptInFlight{Key: "checkout:u1"}))
}

func TestUserMessage_PlainErrorSurfacesVerbatim(t *testing.T) {
	assert.Equal(t, "Sepet boş", UserMessage(errors.New("Sepet boş")))
}
