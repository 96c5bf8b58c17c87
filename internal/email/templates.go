package email

import (
	"fmt"
	"html"
	"strings"

	"backend/internal/config"
)

// Message copy lives here, one builder per notification, each returning
// (subject, html). User-supplied text is escaped at this boundary.

func sheetLink() string {
	return fmt.Sprintf(`<p>Sheet: <a href="https://docs.google.com/spreadsheets/d/%s/edit" target="_blank" rel="noopener">open Google Sheet</a></p>`,
		config.SheetID())
}

func OrderInternalNotice(orderID, buyerName, buyerEmail string, amountEUR float64) (string, string) {
	subject := fmt.Sprintf("AYO • New order %s", orderID)
	body := fmt.Sprintf(`
		<p><strong>Order:</strong> %s</p>
		<p><strong>Buyer:</strong> %s &lt;%s&gt;</p>
		<p><strong>Total:</strong> € %.2f</p>
		%s`,
		html.EscapeString(orderID), html.EscapeString(buyerName), html.EscapeString(buyerEmail),
		amountEUR, sheetLink())
	return subject, body
}

func ClaimConfirmed(recipientName, recipientEmail string) (string, string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We’ve linked the gift adoption to your email <b>%s</b> and saved your shipping address.</p>
		<p>We’ll keep you posted about your olive oil delivery.</p>
		<p>— Adopt Your Olive</p>`,
		html.EscapeString(recipientName), html.EscapeString(recipientEmail))
	return "Your gift claim is confirmed", body
}

func ClaimHolding(recipientName, lang string) (string, string) {
	if lang == "it" {
		body := fmt.Sprintf(`
			<p>Ciao %s,</p>
			<p>Abbiamo ricevuto la tua richiesta di collegamento del regalo. Il nostro team la sta verificando manualmente.</p>
			<p>Riceverai una conferma entro 24-48 ore.</p>
			<p>— Adopt Your Olive</p>`,
			html.EscapeString(recipientName))
		return "Richiesta ricevuta 🌿 Adopt Your Olive", body
	}
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We’ve received your gift claim. Our team is pairing it with the right order manually.</p>
		<p>You’ll get a confirmation within 24-48 hours.</p>
		<p>— Adopt Your Olive</p>`,
		html.EscapeString(recipientName))
	return "Request received 🌿 Adopt Your Olive", body
}

// Candidate is what a human needs to pair a pending claim by hand.
type Candidate struct {
	ID      string
	Date    string
	Adopter string
}

func ClaimLinkedInternal(buyerEmail, recipientEmail, recipientName, ship string) (string, string) {
	body := fmt.Sprintf(`
		<p>Collegamento completato automaticamente (un solo ordine per buyer).</p>
		<p><b>Buyer:</b> %s<br/>
		   <b>Recipient:</b> %s (%s)</p>
		<p><b>Ship:</b> %s</p>
		%s`,
		html.EscapeString(buyerEmail), html.EscapeString(recipientEmail),
		html.EscapeString(recipientName), html.EscapeString(ship), sheetLink())
	return "AYO • Claim regalo collegato", body
}

func ClaimPendingInternal(buyerEmail, recipientEmail, recipientName, ship string, candidates []Candidate) (string, string) {
	subject := "AYO • Claim regalo da abbinare (nessun ordine)"
	list := "<p><i>Nessun candidato trovato.</i></p>"
	if len(candidates) > 0 {
		subject = "AYO • Claim regalo da abbinare (multipli)"
		var items []string
		for _, c := range candidates {
			adopter := c.Adopter
			if adopter == "" {
				adopter = "(vuoto)"
			}
			items = append(items, fmt.Sprintf("<li><b>ID:</b> %s — <b>Data:</b> %s — <b>Adottante:</b> %s</li>",
				html.EscapeString(c.ID), html.EscapeString(c.Date), html.EscapeString(adopter)))
		}
		list = "<ul>" + strings.Join(items, "") + "</ul>"
	}

	body := fmt.Sprintf(`
		<p>Claim ricevuto.</p>
		<p><b>Buyer:</b> %s</p>
		<p><b>Recipient:</b> %s (%s)</p>
		<p><b>Ship:</b> %s</p>
		<p><b>Candidati:</b></p>
		%s
		%s`,
		html.EscapeString(buyerEmail), html.EscapeString(recipientEmail),
		html.EscapeString(recipientName), html.EscapeString(ship), list, sheetLink())
	return subject, body
}

func ContactAdminNotice(name, fromEmail, message string) (string, string) {
	subject := fmt.Sprintf("💬 Nuovo Messaggio: %s", name)
	body := fmt.Sprintf(`
		<p>Hai ricevuto un nuovo messaggio dal sito:</p>
		<hr>
		<p><strong>Nome:</strong> %s</p>
		<p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
		<p><strong>Messaggio:</strong></p>
		<p style="background: #f4f4f4; padding: 10px; border-radius: 5px;">%s</p>`,
		html.EscapeString(name), html.EscapeString(fromEmail),
		html.EscapeString(fromEmail), html.EscapeString(message))
	return subject, body
}

func FavorsAdminLead(name, fromEmail, eventType string, quantity int, message, lang string) (string, string) {
	subject := fmt.Sprintf("🎁 LEAD FAVORS: %dpz - %s (%s)", quantity, name, eventType)
	langLabel := "🇬🇧 English"
	if lang == "it" {
		langLabel = "🇮🇹 Italiano"
	}
	if message == "" {
		message = "Nessun messaggio aggiuntivo"
	}
	body := fmt.Sprintf(`
		<div style="font-family: 'Helvetica Neue', Arial, sans-serif; max-width: 600px; color: #333;">
			<h2 style="background: #e6fffa; padding: 15px; border: 1px solid #2c5e2e; color: #2c5e2e; margin-top:0;">🔔 Nuova Richiesta Preventivo</h2>
			<div style="padding: 10px 0;">
				<strong style="font-size: 18px;">%s</strong><br>
				<a href="mailto:%s" style="color: #2c5e2e;">%s</a>
			</div>
			<p><strong>Tipo Evento:</strong> %s</p>
			<p><strong>Quantità:</strong> %d pezzi</p>
			<p><strong>Lingua:</strong> %s</p>
			<div style="background:#fdf6e3; padding:15px; border: 1px dashed #b58900; border-radius: 4px; margin: 25px 0;">
				<p style="margin:0; font-style:italic;">"%s"</p>
			</div>
		</div>`,
		html.EscapeString(name), html.EscapeString(fromEmail), html.EscapeString(fromEmail),
		html.EscapeString(eventType), quantity, langLabel, html.EscapeString(message))
	return subject, body
}

func FavorsAutoReply(name, eventType string, quantity int, lang string) (string, string) {
	if lang == "it" {
		body := fmt.Sprintf(`
			<div style="font-family: 'Helvetica Neue', Arial, sans-serif; color: #333; max-width: 600px; line-height: 1.6;">
				<h1 style="color: #2c5e2e;">Ciao %s,</h1>
				<p>Grazie per aver pensato al nostro olio per il tuo prossimo evento! 🌿</p>
				<div style="background-color: #f4f4f4; padding: 20px; border-radius: 8px; margin: 20px 0;">
					<h3 style="margin-top:0; color:#2c5e2e;">Riepilogo Richiesta:</h3>
					<p style="margin:5px 0;"><strong>Tipo Evento:</strong> %s</p>
					<p style="margin:5px 0;"><strong>Quantità stimata:</strong> %d pezzi</p>
				</div>
				<p><strong>Ti invieremo un preventivo dettagliato entro 24-48 ore.</strong></p>
				<p>A presto,<br><strong>Il Team di Adopt Your Olive</strong></p>
			</div>`,
			html.EscapeString(name), html.EscapeString(eventType), quantity)
		return "Richiesta ricevuta 🌿 Adopt Your Olive", body
	}
	body := fmt.Sprintf(`
		<div style="font-family: 'Helvetica Neue', Arial, sans-serif; color: #333; max-width: 600px; line-height: 1.6;">
			<h1 style="color: #2c5e2e;">Hi %s,</h1>
			<p>Thank you for considering our olive oil for your upcoming event! 🌿</p>
			<div style="background-color: #f4f4f4; padding: 20px; border-radius: 8px; margin: 20px 0;">
				<h3 style="margin-top:0; color:#2c5e2e;">Request Summary:</h3>
				<p style="margin:5px 0;"><strong>Event Type:</strong> %s</p>
				<p style="margin:5px 0;"><strong>Estimated Quantity:</strong> %d pieces</p>
			</div>
			<p><strong>We will get back to you with a detailed quote within 24-48 hours.</strong></p>
			<p>Talk soon,<br><strong>The Adopt Your Olive Team</strong></p>
		</div>`,
		html.EscapeString(name), html.EscapeString(eventType), quantity)
	return "Request Received 🌿 Adopt Your Olive", body
}

func GuideEmail(memberID, lang string) (string, string) {
	if lang == "it" {
		body := fmt.Sprintf(`
			<div style="font-family: 'Helvetica Neue', Arial, sans-serif; color: #333; max-width: 600px; line-height: 1.6; border: 1px solid #eee; padding: 20px;">
				<h1 style="color: #2c5e2e; text-align: center;">Adopt Your Olive Club</h1>
				<p>Ciao,</p>
				<p>Grazie per aver registrato il tuo certificato (ID: <strong>%s</strong>) e aver richiesto la nostra Guida Ufficiale alla Degustazione! 🌿</p>
				<p>Riceverai la guida direttamente in questa casella di posta non appena sarà pronta.</p>
				<p>A prestissimo,<br><strong>Il Team di Adopt Your Olive</strong></p>
			</div>`,
			html.EscapeString(memberID))
		return "La tua Guida alla Degustazione 🌿 Adopt Your Olive", body
	}
	body := fmt.Sprintf(`
		<div style="font-family: 'Helvetica Neue', Arial, sans-serif; color: #333; max-width: 600px; line-height: 1.6; border: 1px solid #eee; padding: 20px;">
			<h1 style="color: #2c5e2e; text-align: center;">Adopt Your Olive Club</h1>
			<p>Hi,</p>
			<p>Thank you for registering your certificate (ID: <strong>%s</strong>) and requesting our Official Tasting Guide! 🌿</p>
			<p>You will receive the guide right here in your inbox as soon as it's ready.</p>
			<p>Talk soon,<br><strong>The Adopt Your Olive Team</strong></p>
		</div>`,
		html.EscapeString(memberID))
	return "Your Tasting Guide 🌿 Adopt Your Olive", body
}

func EmailUpdatedNotice(oldEmail, newEmail string) (string, string) {
	body := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We’ve updated the email associated with your adoption from <strong>%s</strong> to <strong>%s</strong>.</p>
		<p>If you didn’t request this change, reply to this email.</p>
		<p>— Adopt Your Olive</p>`,
		html.EscapeString(oldEmail), html.EscapeString(newEmail))
	return "Your email was updated", body
}

func EmailChangeInternal(oldEmail, newEmail string) (string, string) {
	body := fmt.Sprintf(`
		<p>Change type: <strong>UPDATE_EMAIL</strong></p>
		<p>Old: <strong>%s</strong><br/>New: <strong>%s</strong><br/>Origin: Club</p>
		%s`,
		html.EscapeString(oldEmail), html.EscapeString(newEmail), sheetLink())
	return "AYO • Email change recorded", body
}
