// Package geoserver generates and patches the GeoServer XML user registry
// (users.xml) used to set the admin password of the provisioned instance.
package geoserver

import (
	"github.com/beevik/etree"

	"github.com/geonode-contrib/geostack/pkg/errors"
)

const registryNamespace = "http://www.geoserver.org/security/users"

// GenerateUsersXML builds a minimal user registry containing a single
// enabled user with a plain-prefixed password, the format the stock
// GeoServer XML user/group service accepts.
func GenerateUsersXML(user, password string) string {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	registry := doc.CreateElement("userRegistry")
	registry.CreateAttr("xmlns", registryNamespace)
	registry.CreateAttr("version", "1.0")

	users := registry.CreateElement("users")
	u := users.CreateElement("user")
	u.CreateAttr("enabled", "true")
	u.CreateAttr("name", user)
	u.CreateAttr("password", "plain:"+password)

	registry.CreateElement("groups")

	doc.Indent(4)
	out, err := doc.WriteToString()
	if err != nil {
		// WriteToString on an in-memory document cannot fail
		panic(err)
	}
	return out
}

// SetPassword rewrites the password attribute of the named user inside an
// existing users.xml document, leaving everything else untouched.
func SetPassword(content, user, password string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return "", errors.Wrap(err, errors.ErrUsersXML, "failed to parse users.xml")
	}

	registry := doc.Root()
	if registry == nil || registry.Tag != "userRegistry" {
		return "", errors.New(errors.ErrUsersXML, "users.xml has no userRegistry root")
	}

	var target *etree.Element
	for _, users := range registry.SelectElements("users") {
		for _, u := range users.SelectElements("user") {
			if u.SelectAttrValue("name", "") == user {
				target = u
				break
			}
		}
	}
	if target == nil {
		return "", errors.Newf(errors.ErrUsersXML, "user %q not found in users.xml", user)
	}

	target.CreateAttr("password", "plain:"+password)

	out, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrUsersXML, "failed to serialize users.xml")
	}
	return out, nil
}
