package mail

type PaymentConfirmationData struct {
	Name     string
	Amount   string
	LoginURL string
}

type CheckoutRecoveryData struct {
	Name        string
	RegisterURL string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	BaseURL  string
}
