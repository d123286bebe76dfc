package main

import (
	"fmt"
	"html/template"
	"path/filepath"
)

type mailTemplate struct {
	subject string
	tmpl    *template.Template
}

// 邮件类型 -> 模板文件名和主题
var mailKinds = map[string]struct {
	file    string
	subject string
}{
	"create_user":      {file: "new_account_email.html", subject: "ECNC 节目单系统 - 账户信息"},
	"reset_password":   {file: "reset_password_otp_email.html", subject: "ECNC 节目单系统 - 重置密码"},
	"change_email":     {file: "change_email_email.html", subject: "ECNC 节目单系统 - 修改邮箱"},
	"lineup_generated": {file: "lineup_generated_email.html", subject: "ECNC 节目单系统 - 节目单已生成"},
}

// loadTemplates 在启动时解析所有模板，模板缺失时直接报错而不是等到收到消息
func loadTemplates(dir string) (map[string]mailTemplate, error) {
	templates := make(map[string]mailTemplate, len(mailKinds))
	for kind, t := range mailKinds {
		tmpl, err := template.ParseFiles(filepath.Join(dir, t.file))
		if err != nil {
			return nil, fmt.Errorf("无法解析邮件模板 %s: %w", t.file, err)
		}
		templates[kind] = mailTemplate{subject: t.subject, tmpl: tmpl}
	}
	return templates, nil
}
