package aws

import ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

func ec2TagsToMap(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[deref(tag.Key)] = deref(tag.Value)
	}
	return m
}

func nameTag(tags []ec2types.Tag) string {
	for _, tag := range tags {
		if deref(tag.Key) == "Name" {
			return deref(tag.Value)
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt32(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}
