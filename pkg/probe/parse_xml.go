package probe

import (
	"errors"

	"github.com/beevik/etree"
)

var errEmptyDocument = errors.New("empty xml document")

func (d *Dialect) parseXML(body []byte) (*MetricSet, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, &ParseError{Dialect: d.Kind.String(), Err: err}
	}
	if doc.Root() == nil {
		return nil, &ParseError{Dialect: d.Kind.String(), Err: errEmptyDocument}
	}

	metrics := NewMetricSet()
	recognized := 0
	if elem := doc.FindElement("//" + d.Element); elem != nil {
		recognized = readAttributes(metrics, elem, d.Fields)
	}
	if err := d.checkRecognized(recognized, ""); err != nil {
		return nil, err
	}

	if d.GroupElement == "" {
		return metrics, nil
	}

	for _, grpElem := range doc.FindElements("//" + d.GroupElement) {
		name := d.groupName(grpElem.SelectAttrValue(d.GroupNameAttr, ""))
		attrElem := grpElem
		if d.GroupChild != "" {
			attrElem = grpElem.SelectElement(d.GroupChild)
			if attrElem == nil {
				log.Debugf("%s %s has no %s element", d.GroupElement, name, d.GroupChild)

				continue
			}
		}

		group := NewMetricSet()
		if readAttributes(group, attrElem, d.GroupFields) == 0 {
			continue
		}
		target := metrics.AddGroup(name)
		for _, key := range group.Names() {
			val, _ := group.Get(key)
			target.Set(key, val)
		}
	}

	return metrics, nil
}

func readAttributes(metrics *MetricSet, elem *etree.Element, fields []Field) (recognized int) {
	for i := range fields {
		field := &fields[i]
		attr := elem.SelectAttr(field.Key)
		for _, alias := range field.Aliases {
			if attr != nil {
				break
			}
			attr = elem.SelectAttr(alias)
		}
		if attr == nil {
			continue
		}
		if setField(metrics, field, attr.Value) {
			recognized++
		}
	}

	return recognized
}
