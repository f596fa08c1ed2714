package contracts

type WebhookDispatcher interface {
	SetWebhookUrl(sheetId string, cellName string, webhookUrl string)
	GetWebhookUrl(sheetId string, cellName string) string
	Notify(sheetId string, cells []*Cell)
	Start()
	Close()
}
