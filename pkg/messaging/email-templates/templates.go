package emailtemplates

import (
	"bytes"
	"fmt"
	"html/template"

	messagingTypes "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/types"
)

const emailVerificacaoTemplate = `<html><body>
<p>Olá {{.Nome}},</p>
<p>Bem-vindo(a) à {{.BrandName}}! Confirme seu endereço de e-mail clicando no link abaixo:</p>
<p><a href="{{.Link}}">Verificar e-mail</a></p>
<p>Se você não criou esta conta, ignore esta mensagem.</p>
<p>{{.BrandName}}</p>
</body></html>`

const emailRedefinicaoSenhaTemplate = `<html><body>
<p>Olá {{.Nome}},</p>
<p>Recebemos um pedido para redefinir a senha da sua conta na {{.BrandName}}.</p>
<p><a href="{{.Link}}">Redefinir senha</a></p>
<p>O link expira em 1 hora. Se você não pediu a redefinição, ignore esta mensagem.</p>
<p>{{.BrandName}}</p>
</body></html>`

const emailSenhaAlteradaTemplate = `<html><body>
<p>Olá {{.Nome}},</p>
<p>A senha da sua conta na {{.BrandName}} acabou de ser alterada.</p>
<p>Se não foi você, sua conta pode estar comprometida. Clique no link abaixo para bloquear a conta imediatamente e abrir um chamado com nosso suporte:</p>
<p><a href="{{.Link}}">Não fui eu, bloquear minha conta</a></p>
<p>{{.BrandName}}</p>
</body></html>`

type templateData struct {
	Nome      string
	Link      string
	BrandName string
}

func resolveTemplate(tempName string, templateDef string, data templateData) (content string, err error) {
	tmpl, err := template.New(tempName).Parse(templateDef)
	if err != nil {
		err = fmt.Errorf("error when parsing template %s: %v", tempName, err)
		return "", err
	}
	var tpl bytes.Buffer

	err = tmpl.Execute(&tpl, data)
	if err != nil {
		err = fmt.Errorf("error during executing template %s: %v", tempName, err)
		return "", err
	}
	return tpl.String(), nil
}

func EmailVerificacaoHtml(nome string, link string, branding messagingTypes.Branding) (subject string, html string, err error) {
	subject = "Confirme seu e-mail - " + branding.BrandName
	html, err = resolveTemplate("email-verificacao", emailVerificacaoTemplate, templateData{
		Nome:      nome,
		Link:      link,
		BrandName: branding.BrandName,
	})
	return
}

func EmailRedefinicaoSenhaHtml(nome string, link string, branding messagingTypes.Branding) (subject string, html string, err error) {
	subject = "Redefinição de senha - " + branding.BrandName
	html, err = resolveTemplate("email-redefinicao-senha", emailRedefinicaoSenhaTemplate, templateData{
		Nome:      nome,
		Link:      link,
		BrandName: branding.BrandName,
	})
	return
}

func EmailSenhaAlteradaHtml(nome string, securityLink string, branding messagingTypes.Branding) (subject string, html string, err error) {
	subject = "Sua senha foi alterada - " + branding.BrandName
	html, err = resolveTemplate("email-senha-alterada", emailSenhaAlteradaTemplate, templateData{
		Nome:      nome,
		Link:      securityLink,
		BrandName: branding.BrandName,
	})
	return
}
