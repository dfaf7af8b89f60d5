// Package sanitize strips server-generated fields from collected objects so
// the output can be fed back through kubectl apply.
package sanitize

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// strippedMetadataFields are the metadata keys the API server owns. Removing
// them (plus the status subtree) makes a document safe to reapply.
var strippedMetadataFields = []string{
	"uid",
	"resourceVersion",
	"selfLink",
	"creationTimestamp",
	"generation",
	"managedFields",
}

// Object returns a sanitized copy of obj. The input is never mutated,
// absent fields are not an error, and re-sanitizing a sanitized object is a
// no-op.
func Object(obj *unstructured.Unstructured) *unstructured.Unstructured {
	out := obj.DeepCopy()
	for _, field := range strippedMetadataFields {
		unstructured.RemoveNestedField(out.Object, "metadata", field)
	}
	unstructured.RemoveNestedField(out.Object, "status")
	return out
}
